package encodingapi

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestInputStreamChildIDs(t *testing.T) {
	trimParent := "is-parent"
	tests := []struct {
		name   string
		stream InputStream
		want   []string
	}{
		{
			name:   "IngestIsLeaf",
			stream: InputStream{Type: "INGEST", InputID: "in-1", InputPath: "a.mp4"},
			want:   nil,
		},
		{
			name: "Concatenation",
			stream: InputStream{Type: "CONCATENATION", Concatenation: []ConcatenationEntry{
				{InputStreamID: "is-a", Position: 0, IsMain: true},
				{InputStreamID: "is-b", Position: 1},
			}},
			want: []string{"is-a", "is-b"},
		},
		{
			name:   "Trim",
			stream: InputStream{Type: "TRIMMING_TIME_BASED", InputStreamID: trimParent},
			want:   []string{trimParent},
		},
		{
			name: "AudioMixDeduplicates",
			stream: InputStream{Type: "AUDIO_MIX", AudioMixChannels: []AudioMixChannel{
				{ChannelNumber: 0, SourceChannels: []AudioMixSourceChannel{{InputStreamID: "is-x"}}},
				{ChannelNumber: 1, SourceChannels: []AudioMixSourceChannel{{InputStreamID: "is-x"}}},
			}},
			want: []string{"is-x"},
		},
		{
			name:   "UnknownVariantIsLeaf",
			stream: InputStream{Type: "FUTURE_VARIANT", InputStreamID: "is-ignored"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.stream.ChildIDs()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChildIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterKeepsRawPayload(t *testing.T) {
	payload := []byte(`{"id":"f-1","type":"WATERMARK","image":"logo.png","left":10}`)
	var f Filter
	if err := json.Unmarshal(payload, &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.ID != "f-1" || f.Type != "WATERMARK" {
		t.Errorf("common fields = (%q, %q), want (f-1, WATERMARK)", f.ID, f.Type)
	}
	var raw map[string]any
	if err := json.Unmarshal(f.Raw, &raw); err != nil {
		t.Fatalf("Raw payload invalid: %v", err)
	}
	if raw["image"] != "logo.png" {
		t.Errorf("Raw lost variant field: %v", raw)
	}
}

func TestStreamIgnored(t *testing.T) {
	s := Stream{}
	if s.Ignored() {
		t.Error("stream without ignoredBy entries should not be ignored")
	}
	s.IgnoredBy = []IgnoredBy{{IgnoredBy: "PER_TITLE", Description: "not selected"}}
	if !s.Ignored() {
		t.Error("stream with ignoredBy entries should be ignored")
	}
}
