package inspect

import (
	"testing"

	"github.com/enclens/enclens/pkg/encodingapi"
)

func floatPtr(f float64) *float64 { return &f }

func TestStreamLabel(t *testing.T) {
	tests := []struct {
		name   string
		codec  *encodingapi.CodecConfiguration
		stream *encodingapi.Stream
		want   string
	}{
		{
			name: "video",
			codec: &encodingapi.CodecConfiguration{
				Type: "H264", Width: 1920, Height: 1080, Bitrate: 4800000, Rate: floatPtr(25),
			},
			want: "1920x1080 25fps @ 4.6 Mbps",
		},
		{
			name: "video per-title template",
			codec: &encodingapi.CodecConfiguration{
				Type: "H265", Height: 720, Bitrate: 1500000,
			},
			stream: &encodingapi.Stream{Mode: encodingapi.StreamModePerTitleTemplate},
			want:   "720h  @ 1.4 Mbps(PT)",
		},
		{
			name:  "audio",
			codec: &encodingapi.CodecConfiguration{Type: "AAC", Bitrate: 128000, ChannelLayout: "STEREO"},
			want:  "ChannelLayout.STEREO @ 125.0 kbps",
		},
		{
			name:  "unrecognized codec",
			codec: &encodingapi.CodecConfiguration{Type: "SPEEX"},
			want:  "(not handled by this tool correctly)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreamLabel(tt.codec, tt.stream); got != tt.want {
				t.Errorf("StreamLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortenPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/videos/2024/source.mp4", ".../source.mp4"},
		{"source.mp4", "source.mp4"},
		{"/top.mp4", ".../top.mp4"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ShortenPath(tt.path); got != tt.want {
			t.Errorf("ShortenPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPlayerSourcesRules(t *testing.T) {
	report := &Report{
		Manifests: []ManifestRow{
			{Type: "DASH", URLs: encodingapi.URLSet{StreamingURL: "https://cdn/d.mpd"}},
			{Type: "HLS", URLs: encodingapi.URLSet{StreamingURL: "https://cdn/m.m3u8"}},
			{Type: "SMOOTH"}, // no streaming URL, skipped
		},
		Muxings: []MuxingRow{
			{MuxingType: "MP4", URLs: encodingapi.URLSet{StreamingURL: "https://cdn/f.mp4"}},
			{MuxingType: "MP4", DrmID: "drm-1", URLs: encodingapi.URLSet{StreamingURL: "https://cdn/enc.mp4"}},
			{MuxingType: "FMP4"},
		},
	}
	keys := map[string][]DrmKey{"CENC": {{Key: "k", Kid: "kid"}}}

	sources := report.PlayerSources(keys)
	if len(sources) != 3 {
		t.Fatalf("got %d sources: %+v", len(sources), sources)
	}
	if sources[0].Type != "DASH" || len(sources[0].ClearKeys) != 1 {
		t.Errorf("dash source should carry clear keys: %+v", sources[0])
	}
	if sources[1].Type != "HLS" || sources[1].ClearKeys != nil {
		t.Errorf("hls source should not carry clear keys: %+v", sources[1])
	}
	if sources[2].Type != "MP4" || sources[2].URL != "https://cdn/f.mp4" {
		t.Errorf("only the unprotected progressive file is playable: %+v", sources[2])
	}
}
