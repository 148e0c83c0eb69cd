package rendition

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/enclens/enclens/pkg/encodingapi"
)

// Collect flattens one encoding into renditions and adds them to the set:
// one rendition for every stream of every muxing. Failures below the
// encoding itself are returned as warnings; the remaining renditions are
// still collected.
func Collect(ctx context.Context, client *encodingapi.Client, set *Set, encodingID string) []error {
	logger := log.FromContext(ctx)

	enc, err := client.Encoding(ctx, encodingID)
	if err != nil {
		return []error{err}
	}

	muxings, err := client.Muxings(ctx, encodingID)
	if err != nil {
		return []error{err}
	}

	var warnings []error
	streams := make(map[string]*encodingapi.Stream)
	codecs := make(map[string]*encodingapi.CodecConfiguration)

	for _, m := range muxings {
		muxing, err := client.Muxing(ctx, encodingID, m.Type, m.ID)
		if err != nil {
			logger.Warn("skipping muxing", "id", m.ID, "err", err)
			warnings = append(warnings, err)
			muxing = &m
		}

		for _, ms := range muxing.Streams {
			stream, ok := streams[ms.StreamID]
			if !ok {
				stream, err = client.Stream(ctx, encodingID, ms.StreamID)
				if err != nil {
					warnings = append(warnings, err)
					continue
				}
				streams[ms.StreamID] = stream
			}

			codec, ok := codecs[stream.CodecConfigID]
			if !ok {
				codec, err = client.CodecConfiguration(ctx, stream.CodecConfigID)
				if err != nil {
					warnings = append(warnings, err)
					continue
				}
				codecs[stream.CodecConfigID] = codec
			}

			set.Add(&Rendition{
				Encoding: enc,
				Stream:   stream,
				Codec:    codec,
				Muxing:   muxing,
			})
		}
	}
	return warnings
}
