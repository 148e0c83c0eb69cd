// Package rendition flattens encodings into comparable renditions and
// implements the filterable side-by-side comparison. A rendition is one
// playable variant: the combination of an encoding, a muxing, one of its
// streams and that stream's codec configuration.
package rendition

import (
	"encoding/json"

	"github.com/enclens/enclens/pkg/encodingapi"
)

// Categories are the resource groups a rendition exposes fields for, in
// display order.
var Categories = []string{"codec", "stream", "muxing", "encoding"}

// Rendition is one comparable variant of an encoding.
type Rendition struct {
	Encoding *encodingapi.Encoding
	Stream   *encodingapi.Stream
	Codec    *encodingapi.CodecConfiguration
	Muxing   *encodingapi.Muxing
}

// Fields returns the comparable fields of one resource category. Absent
// keys mean the field does not apply to this rendition; a video codec has
// no channelLayout and an audio codec has no height.
func (r *Rendition) Fields(category string) map[string]any {
	switch category {
	case "encoding":
		return encodingFields(r.Encoding)
	case "codec":
		return codecFields(r.Codec)
	case "stream":
		return streamFields(r.Stream)
	case "muxing":
		return muxingFields(r.Muxing)
	default:
		return nil
	}
}

// ValueForField looks up a single field. ok is false when the field does
// not apply to this rendition.
func (r *Rendition) ValueForField(category, field string) (any, bool) {
	v, ok := r.Fields(category)[field]
	return v, ok
}

func encodingFields(e *encodingapi.Encoding) map[string]any {
	if e == nil {
		return nil
	}
	f := map[string]any{
		"id":     e.ID,
		"status": e.Status,
	}
	putString(f, "encoderVersion", e.EncoderVersion)
	putString(f, "selectedEncoderVersion", e.SelectedEncoderVersion)
	putString(f, "startedAt", e.StartedAt)
	putString(f, "finishedAt", e.FinishedAt)
	return f
}

func codecFields(c *encodingapi.CodecConfiguration) map[string]any {
	if c == nil {
		return nil
	}
	f := map[string]any{
		"id":        c.ID,
		"type":      c.Type,
		"mediaType": string(c.MediaType()),
	}
	putString(f, "name", c.Name)
	putString(f, "profile", c.Profile)
	putString(f, "level", c.Level)
	putString(f, "presetConfiguration", c.PresetConfiguration)
	putString(f, "encodingMode", c.EncodingMode)
	putString(f, "channelLayout", c.ChannelLayout)
	putInt(f, "width", int64(c.Width))
	putInt(f, "height", int64(c.Height))
	putInt(f, "bitrate", c.Bitrate)
	if c.Rate != nil {
		f["rate"] = *c.Rate
	}
	if c.SampleRate != nil {
		f["sampleRate"] = *c.SampleRate
	}
	return f
}

func streamFields(s *encodingapi.Stream) map[string]any {
	if s == nil {
		return nil
	}
	f := map[string]any{
		"id": s.ID,
	}
	putString(f, "name", s.Name)
	putString(f, "mode", s.Mode)
	putString(f, "codecConfigId", s.CodecConfigID)
	if len(s.InputStreams) > 0 {
		f["inputStreams"] = s.InputStreams
	}
	if len(s.IgnoredBy) > 0 {
		f["ignoredBy"] = s.IgnoredBy
	}
	if s.Metadata != nil {
		f["metadata"] = s.Metadata
	}
	if s.AppliedSettings != nil {
		f["appliedSettings"] = s.AppliedSettings
	}
	if len(s.Conditions) > 0 {
		f["conditions"] = s.Conditions
	}
	return f
}

func muxingFields(m *encodingapi.Muxing) map[string]any {
	if m == nil {
		return nil
	}
	f := map[string]any{
		"id":   m.ID,
		"type": m.Type,
	}
	putString(f, "name", m.Name)
	putString(f, "filename", m.Filename)
	putString(f, "segmentNaming", m.SegmentNaming)
	putString(f, "streamConditionsMode", m.StreamConditionsMode)
	putInt(f, "avgBitrate", m.AvgBitrate)
	putInt(f, "maxBitrate", m.MaxBitrate)
	putInt(f, "minBitrate", m.MinBitrate)
	if m.SegmentLength > 0 {
		f["segmentLength"] = m.SegmentLength
	}
	if len(m.IgnoredBy) > 0 {
		f["ignoredBy"] = m.IgnoredBy
	}
	return f
}

func putString(f map[string]any, key, v string) {
	if v != "" {
		f[key] = v
	}
}

func putInt(f map[string]any, key string, v int64) {
	if v != 0 {
		f[key] = v
	}
}

// condition mirrors the simple stream condition shape used for display.
type condition struct {
	Attribute string          `json:"attribute"`
	Operator  string          `json:"operator"`
	Value     json.RawMessage `json:"value"`
}
