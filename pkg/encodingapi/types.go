package encodingapi

import "encoding/json"

// ListResult is the envelope returned by list endpoints.
type ListResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}

// IgnoredBy records why an upstream component skipped a stream, for example
// when a per-title template stream was not selected for the final ladder.
type IgnoredBy struct {
	IgnoredBy   string `json:"ignoredBy"`
	Description string `json:"description,omitempty"`
}

// StreamMode is the mode field of a stream. Per-title template streams are
// placeholders that spawn the actual ladder streams.
const (
	StreamModeStandard         = "STANDARD"
	StreamModePerTitleTemplate = "PER_TITLE_TEMPLATE"
	StreamModePerTitleResult   = "PER_TITLE_RESULT"
)

// Encoding is the root resource of an inspection.
type Encoding struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Status                 string `json:"status"`
	CloudRegion            string `json:"cloudRegion,omitempty"`
	EncoderVersion         string `json:"encoderVersion,omitempty"`
	SelectedEncoderVersion string `json:"selectedEncoderVersion,omitempty"`
	SelectedCloudRegion    string `json:"selectedCloudRegion,omitempty"`
	CreatedAt              string `json:"createdAt,omitempty"`
	StartedAt              string `json:"startedAt,omitempty"`
	FinishedAt             string `json:"finishedAt,omitempty"`
}

// StartRequest is the configuration the encoding was started with. It is
// kept raw for display; the dashboard shows it verbatim.
type StartRequest struct {
	Raw json.RawMessage
}

// UnmarshalJSON keeps the whole start payload.
func (s *StartRequest) UnmarshalJSON(data []byte) error {
	s.Raw = append(s.Raw[:0], data...)
	return nil
}

// MarshalJSON writes the raw payload back out.
func (s StartRequest) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return []byte("null"), nil
	}
	return s.Raw, nil
}

// StreamInput is one entry of a stream's input list. Exactly one of
// InputStreamID or the InputID/InputPath pair is set.
type StreamInput struct {
	InputID       string `json:"inputId,omitempty"`
	InputPath     string `json:"inputPath,omitempty"`
	InputStreamID string `json:"inputStreamId,omitempty"`
	Position      *int   `json:"position,omitempty"`
	SelectionMode string `json:"selectionMode,omitempty"`
}

// StreamMetadata carries per-stream descriptive fields.
type StreamMetadata struct {
	Language string `json:"language,omitempty"`
}

// AppliedStreamSettings are the settings the encoder resolved at runtime,
// e.g. the concrete resolution picked by per-title.
type AppliedStreamSettings struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Stream binds inputs to a codec configuration.
type Stream struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name,omitempty"`
	CodecConfigID   string                 `json:"codecConfigId"`
	Mode            string                 `json:"mode,omitempty"`
	InputStreams    []StreamInput          `json:"inputStreams"`
	IgnoredBy       []IgnoredBy            `json:"ignoredBy,omitempty"`
	Metadata        *StreamMetadata        `json:"metadata,omitempty"`
	AppliedSettings *AppliedStreamSettings `json:"appliedSettings,omitempty"`
	Conditions      json.RawMessage        `json:"conditions,omitempty"`
	CreatedAt       string                 `json:"createdAt,omitempty"`
}

// Ignored reports whether any upstream component skipped this stream.
func (s *Stream) Ignored() bool { return len(s.IgnoredBy) > 0 }

// EncodingOutput places a resource's artifacts on an output at a path.
type EncodingOutput struct {
	OutputID   string `json:"outputId"`
	OutputPath string `json:"outputPath"`
}

// MuxingStream references a stream packaged by a muxing.
type MuxingStream struct {
	StreamID string `json:"streamId"`
}

// Muxing packages one or more streams into a container. Type is the API
// discriminator; resolve it with ResolveMuxingKind.
type Muxing struct {
	ID                   string           `json:"id"`
	Type                 string           `json:"type"`
	Name                 string           `json:"name,omitempty"`
	Filename             string           `json:"filename,omitempty"`
	SegmentLength        float64          `json:"segmentLength,omitempty"`
	SegmentNaming        string           `json:"segmentNaming,omitempty"`
	AvgBitrate           int64            `json:"avgBitrate,omitempty"`
	MaxBitrate           int64            `json:"maxBitrate,omitempty"`
	MinBitrate           int64            `json:"minBitrate,omitempty"`
	Streams              []MuxingStream   `json:"streams"`
	Outputs              []EncodingOutput `json:"outputs,omitempty"`
	IgnoredBy            []IgnoredBy      `json:"ignoredBy,omitempty"`
	StreamConditionsMode string           `json:"streamConditionsMode,omitempty"`
}

// Segmented reports whether this muxing produces chunked output.
func (m *Muxing) Segmented() bool { return IsSegmentedMuxing(m.Type) }

// Ignored reports whether any upstream component skipped this muxing.
func (m *Muxing) Ignored() bool { return len(m.IgnoredBy) > 0 }

// Drm is an encryption configuration attached to a muxing.
type Drm struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Key      string           `json:"key,omitempty"`
	Kid      string           `json:"kid,omitempty"`
	IV       string           `json:"iv,omitempty"`
	Method   string           `json:"method,omitempty"`
	Filename string           `json:"filename,omitempty"`
	Outputs  []EncodingOutput `json:"outputs,omitempty"`
}

// Output is a storage destination. BucketName is set for the cloud bucket
// backends; URL computation supports S3 and GCS.
type Output struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	BucketName  string `json:"bucketName,omitempty"`
	CloudRegion string `json:"cloudRegion,omitempty"`
}

// Input is a storage source for ingest.
type Input struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	BucketName string `json:"bucketName,omitempty"`
}

// ConcatenationEntry is one part of a concatenation input stream.
type ConcatenationEntry struct {
	InputStreamID string `json:"inputStreamId"`
	Position      int    `json:"position"`
	IsMain        bool   `json:"isMain,omitempty"`
}

// AudioMixSourceChannel references a channel of another input stream.
type AudioMixSourceChannel struct {
	InputStreamID string `json:"inputStreamId,omitempty"`
	Type          string `json:"type,omitempty"`
	ChannelNumber *int   `json:"channelNumber,omitempty"`
}

// AudioMixChannel is one output channel of an audio mix.
type AudioMixChannel struct {
	ChannelNumber  int                     `json:"channelNumber"`
	SourceChannels []AudioMixSourceChannel `json:"sourceChannels,omitempty"`
}

// InputStream is a derived input. The variant set is closed; fields beyond
// ID and Type are variant-specific and zero elsewhere.
type InputStream struct {
	ID               string               `json:"id"`
	Type             string               `json:"type"`
	Name             string               `json:"name,omitempty"`
	InputID          string               `json:"inputId,omitempty"`
	InputPath        string               `json:"inputPath,omitempty"`
	SelectionMode    string               `json:"selectionMode,omitempty"`
	Offset           *float64             `json:"offset,omitempty"`
	Duration         *float64             `json:"duration,omitempty"`
	InputStreamID    string               `json:"inputStreamId,omitempty"`
	Concatenation    []ConcatenationEntry `json:"concatenation,omitempty"`
	AudioMixChannels []AudioMixChannel    `json:"audioMixChannels,omitempty"`
}

// ChildIDs returns the input-stream ids this stream derives from, walking
// the reference fields of the concrete variant. Ingest and file streams are
// leaves and return nil.
func (s *InputStream) ChildIDs() []string {
	switch s.Type {
	case "CONCATENATION":
		ids := make([]string, 0, len(s.Concatenation))
		for _, entry := range s.Concatenation {
			if entry.InputStreamID != "" {
				ids = append(ids, entry.InputStreamID)
			}
		}
		return ids
	case "TRIMMING_TIME_BASED", "TRIMMING_TIME_CODE_TRACK":
		if s.InputStreamID == "" {
			return nil
		}
		return []string{s.InputStreamID}
	case "AUDIO_MIX":
		var ids []string
		seen := make(map[string]bool)
		for _, ch := range s.AudioMixChannels {
			for _, src := range ch.SourceChannels {
				if src.InputStreamID != "" && !seen[src.InputStreamID] {
					seen[src.InputStreamID] = true
					ids = append(ids, src.InputStreamID)
				}
			}
		}
		return ids
	default:
		return nil
	}
}

// CodecConfiguration holds the union of the fields the inspector and the
// rendition comparator read across codec variants. Video-only fields are
// zero on audio configs and vice versa.
type CodecConfiguration struct {
	ID                  string   `json:"id"`
	Type                string   `json:"type"`
	Name                string   `json:"name,omitempty"`
	Bitrate             int64    `json:"bitrate,omitempty"`
	Rate                *float64 `json:"rate,omitempty"`
	Width               int      `json:"width,omitempty"`
	Height              int      `json:"height,omitempty"`
	Profile             string   `json:"profile,omitempty"`
	Level               string   `json:"level,omitempty"`
	PresetConfiguration string   `json:"presetConfiguration,omitempty"`
	EncodingMode        string   `json:"encodingMode,omitempty"`
	ChannelLayout       string   `json:"channelLayout,omitempty"`
	SampleRate          *float64 `json:"sampleRate,omitempty"`
}

// MediaType returns the audio/video classification of this configuration.
func (c *CodecConfiguration) MediaType() MediaType { return CodecMediaType(c.Type) }

// TypeRef is the response of the lightweight */type endpoints used before
// fetching the full polymorphic resource.
type TypeRef struct {
	Type string `json:"type"`
}

// FilterRef is one entry of a stream's filter list.
type FilterRef struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// Filter is a transformation applied to a stream. Variant fields stay raw;
// the dashboard shows them verbatim.
type Filter struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Name string          `json:"name,omitempty"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the common fields and keeps the full payload.
func (f *Filter) UnmarshalJSON(data []byte) error {
	type alias Filter
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*f = Filter(a)
	f.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MediaStreamInfo describes one track found by input analysis.
type MediaStreamInfo struct {
	Position      int     `json:"position"`
	Codec         string  `json:"codec,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	Bitrate       int64   `json:"bitrate,omitempty"`
	Width         int     `json:"width,omitempty"`
	Height        int     `json:"height,omitempty"`
	Rate          float64 `json:"rate,omitempty"`
	ChannelFormat string  `json:"channelFormat,omitempty"`
	Language      string  `json:"language,omitempty"`
}

// StreamInputDetails is the analysis of the input behind a stream.
type StreamInputDetails struct {
	FormatName   string            `json:"formatName,omitempty"`
	Duration     float64           `json:"duration,omitempty"`
	Size         int64             `json:"size,omitempty"`
	Bitrate      int64             `json:"bitrate,omitempty"`
	VideoStreams []MediaStreamInfo `json:"videoStreams,omitempty"`
	AudioStreams []MediaStreamInfo `json:"audioStreams,omitempty"`
}

// Sprite is a generated sprite sheet attached to a stream.
type Sprite struct {
	ID         string           `json:"id"`
	Name       string           `json:"name,omitempty"`
	SpriteName string           `json:"spriteName,omitempty"`
	VTTName    string           `json:"vttName,omitempty"`
	Width      int              `json:"width,omitempty"`
	Height     int              `json:"height,omitempty"`
	Outputs    []EncodingOutput `json:"outputs,omitempty"`
}

// Thumbnail is a generated thumbnail attached to a stream.
type Thumbnail struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Pattern   string           `json:"pattern,omitempty"`
	Height    int              `json:"height,omitempty"`
	Positions []float64        `json:"positions,omitempty"`
	Outputs   []EncodingOutput `json:"outputs,omitempty"`
}

// Manifest is a streaming manifest referencing the encoding.
type Manifest struct {
	ID                 string           `json:"id"`
	Type               string           `json:"type"`
	Name               string           `json:"name,omitempty"`
	ManifestName       string           `json:"manifestName,omitempty"`
	ClientManifestName string           `json:"clientManifestName,omitempty"` // smooth only
	Outputs            []EncodingOutput `json:"outputs,omitempty"`
}

// FileName returns the name of the top-level manifest file. Smooth
// manifests expose it as the client manifest name.
func (m *Manifest) FileName() string {
	if m.Type == "SMOOTH" {
		return m.ClientManifestName
	}
	return m.ManifestName
}

// DashPeriod is one period of a DASH manifest.
type DashPeriod struct {
	ID       string   `json:"id"`
	Start    *float64 `json:"start,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// AdaptationSetKind enumerates the DASH adaptation set media endpoints.
var AdaptationSetKinds = []string{"audio", "video", "subtitle", "image"}

// DashAdaptationSet groups representations of one media type.
type DashAdaptationSet struct {
	ID    string   `json:"id"`
	Media string   `json:"-"`
	Lang  string   `json:"lang,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// RepresentationKind enumerates the DASH representation sub-endpoints.
var RepresentationKinds = []string{"fmp4", "webm", "mp4", "sprite", "imsc", "chunked-text", "vtt"}

// DashRepresentation is one representation inside an adaptation set. Kind
// records which sub-endpoint it came from.
type DashRepresentation struct {
	ID          string `json:"id"`
	Kind        string `json:"-"`
	EncodingID  string `json:"encodingId,omitempty"`
	MuxingID    string `json:"muxingId,omitempty"`
	SegmentPath string `json:"segmentPath,omitempty"`
	FilePath    string `json:"filePath,omitempty"`
	Type        string `json:"type,omitempty"`
}

// DashContentProtection attaches a muxing DRM to an adaptation set or
// representation.
type DashContentProtection struct {
	ID         string `json:"id"`
	EncodingID string `json:"encodingId,omitempty"`
	MuxingID   string `json:"muxingId,omitempty"`
	DrmID      string `json:"drmId,omitempty"`
}

// HlsStream is one variant stream entry of an HLS manifest.
type HlsStream struct {
	ID          string `json:"id"`
	URI         string `json:"uri,omitempty"`
	EncodingID  string `json:"encodingId,omitempty"`
	StreamID    string `json:"streamId,omitempty"`
	MuxingID    string `json:"muxingId,omitempty"`
	Audio       string `json:"audio,omitempty"`
	SegmentPath string `json:"segmentPath,omitempty"`
}

// HlsMedia is one media playlist entry (audio, subtitles, closed captions).
type HlsMedia struct {
	ID          string `json:"id"`
	Kind        string `json:"-"`
	URI         string `json:"uri,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	Name        string `json:"name,omitempty"`
	Language    string `json:"language,omitempty"`
	EncodingID  string `json:"encodingId,omitempty"`
	StreamID    string `json:"streamId,omitempty"`
	MuxingID    string `json:"muxingId,omitempty"`
	SegmentPath string `json:"segmentPath,omitempty"`
}

// HlsMediaKinds enumerates the HLS media sub-endpoints.
var HlsMediaKinds = []string{"audio", "subtitles", "closed-captions", "vtt"}
