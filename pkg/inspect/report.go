// Package inspect walks all resources reachable from an encoding and
// produces the inspection report and resource graph behind the inspect,
// graph and serve commands.
package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/enclens/enclens/pkg/encodingapi"
	"github.com/enclens/enclens/pkg/format"
)

// DrmKey is one decryption key found on a DRM resource.
type DrmKey struct {
	Key string `json:"key"`
	Kid string `json:"kid,omitempty"`
}

// EncodingRow summarizes the root encoding.
type EncodingRow struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	EncoderVersion string          `json:"encoderVersion,omitempty"`
	CloudRegion    string          `json:"cloudRegion,omitempty"`
	Encoding       json.RawMessage `json:"encoding,omitempty"`
	StartRequest   json.RawMessage `json:"startRequest,omitempty"`
}

// StreamRow is one stream with its codec summary and everything hanging off
// the stream: filters by position, sprites and thumbnails, the derived
// input chain and the input analysis.
type StreamRow struct {
	StreamID    string                          `json:"streamId"`
	Mode        string                          `json:"mode,omitempty"`
	Media       encodingapi.MediaType           `json:"media"`
	Codec       string                          `json:"codec"`
	Label       string                          `json:"label"`
	Width       int                             `json:"width,omitempty"`
	Height      int                             `json:"height,omitempty"`
	Bitrate     int64                           `json:"bitrate,omitempty"`
	Stream      *encodingapi.Stream             `json:"stream,omitempty"`
	CodecConfig *encodingapi.CodecConfiguration `json:"codecConfig,omitempty"`
	Filters     map[int]*encodingapi.Filter     `json:"filters,omitempty"`
	Sprites     []encodingapi.Sprite            `json:"sprites,omitempty"`
	Thumbnails  []encodingapi.Thumbnail         `json:"thumbnails,omitempty"`
	InputChain  []*InputChainNode               `json:"inputChain,omitempty"`
	InputInfo   *encodingapi.StreamInputDetails `json:"inputInfo,omitempty"`
}

// InputChainNode is one resolved input stream in a stream's derivation
// chain, with the streams it derives from as children.
type InputChainNode struct {
	InputStream *encodingapi.InputStream `json:"inputStream"`
	Children    []*InputChainNode        `json:"children,omitempty"`
}

// MuxingRow is one muxing placement: the muxing on one output, optionally
// through a DRM configuration.
type MuxingRow struct {
	MuxingID   string              `json:"muxingId"`
	MuxingType string              `json:"muxingType"`
	DrmID      string              `json:"drmId,omitempty"`
	DrmType    string              `json:"drmType,omitempty"`
	AvgBitrate int64               `json:"avgBitrate,omitempty"`
	OutputType string              `json:"outputType,omitempty"`
	Host       string              `json:"host,omitempty"`
	Filename   string              `json:"filename,omitempty"`
	OutputPath string              `json:"outputPath,omitempty"`
	URLs       encodingapi.URLSet  `json:"urls"`
	StreamIDs  []string            `json:"streamIds,omitempty"`
	Muxing     *encodingapi.Muxing `json:"muxing,omitempty"`
	Drm        *encodingapi.Drm    `json:"drm,omitempty"`
}

// InputRow is one distinct source file with its analysis summary.
type InputRow struct {
	Path         string                          `json:"path"`
	Duration     float64                         `json:"duration,omitempty"`
	Bitrate      int64                           `json:"bitrate,omitempty"`
	VideoStreams int                             `json:"videoStreams"`
	AudioStreams int                             `json:"audioStreams"`
	Details      *encodingapi.StreamInputDetails `json:"details,omitempty"`
}

// ManifestRow is one manifest placement with its resolved resource tree.
type ManifestRow struct {
	ManifestID string                `json:"manifestId"`
	Type       string                `json:"type"`
	OutputType string                `json:"outputType,omitempty"`
	Host       string                `json:"host,omitempty"`
	URLs       encodingapi.URLSet    `json:"urls"`
	Manifest   *encodingapi.Manifest `json:"manifest,omitempty"`
	Tree       *ManifestNode         `json:"tree,omitempty"`
}

// ManifestNode is one node of a manifest resource tree.
type ManifestNode struct {
	Type     string          `json:"type"`
	Payload  any             `json:"payload,omitempty"`
	Children []*ManifestNode `json:"children,omitempty"`
}

// Report is the full inspection result in table form.
type Report struct {
	Encoding  EncodingRow   `json:"encoding"`
	Streams   []StreamRow   `json:"streams"`
	Muxings   []MuxingRow   `json:"muxings"`
	Inputs    []InputRow    `json:"inputs"`
	Manifests []ManifestRow `json:"manifests"`
}

// PlayerSource is a playable address derived from the inspection: a
// manifest or a progressive file, with clear keys when CENC DRM applies.
type PlayerSource struct {
	Type      string   `json:"type"` // DASH, HLS, SMOOTH or MP4
	URL       string   `json:"url"`
	ClearKeys []DrmKey `json:"clearKeys,omitempty"`
}

// PlayerSources derives the playable addresses of the report: one per
// manifest with a streaming URL, plus one per progressive MP4 muxing.
// CENC keys are attached to DASH sources for clear-key playback.
func (r *Report) PlayerSources(drmKeys map[string][]DrmKey) []PlayerSource {
	var sources []PlayerSource
	for _, m := range r.Manifests {
		if m.URLs.StreamingURL == "" {
			continue
		}
		src := PlayerSource{Type: m.Type, URL: m.URLs.StreamingURL}
		if m.Type == "DASH" {
			src.ClearKeys = drmKeys["CENC"]
		}
		sources = append(sources, src)
	}
	for _, m := range r.Muxings {
		if m.MuxingType == "MP4" && m.DrmID == "" && m.URLs.StreamingURL != "" {
			sources = append(sources, PlayerSource{Type: "MP4", URL: m.URLs.StreamingURL})
		}
	}
	return sources
}

// StreamLabel builds the short codec summary shown on stream rows and
// codec graph nodes, e.g. "1920x1080 25fps @ 4.8 Mbps" for video or
// "ChannelLayout.STEREO @ 125.0 kbps" for audio. Per-title template
// streams get a "(PT)" marker.
func StreamLabel(codec *encodingapi.CodecConfiguration, stream *encodingapi.Stream) string {
	switch codec.MediaType() {
	case encodingapi.MediaAudio:
		return fmt.Sprintf("ChannelLayout.%s @ %s", codec.ChannelLayout, format.Bitrate(codec.Bitrate))
	case encodingapi.MediaVideo:
		var resolution string
		switch {
		case codec.Width > 0 && codec.Height > 0:
			resolution = fmt.Sprintf("%dx%d", codec.Width, codec.Height)
		case codec.Width > 0:
			resolution = fmt.Sprintf("%dw", codec.Width)
		case codec.Height > 0:
			resolution = fmt.Sprintf("%dh", codec.Height)
		}

		var framerate string
		if codec.Rate != nil && *codec.Rate > 0 {
			framerate = fmt.Sprintf("%gfps", *codec.Rate)
		}
		var mode string
		if stream != nil && strings.HasPrefix(stream.Mode, encodingapi.StreamModePerTitleTemplate) {
			mode = "(PT)"
		}
		var bitrate string
		if codec.Bitrate > 0 {
			bitrate = format.Bitrate(codec.Bitrate)
		}
		return fmt.Sprintf("%s %s @ %s%s", resolution, framerate, bitrate, mode)
	default:
		return "(not handled by this tool correctly)"
	}
}

// ShortenPath reduces an input path to its basename prefixed with ".../",
// the display form used for file nodes. Paths without a separator pass
// through unchanged.
func ShortenPath(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return ".../" + path[idx+1:]
	}
	return path
}
