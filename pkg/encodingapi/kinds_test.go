package encodingapi

import "testing"

func TestResolveMuxingKind(t *testing.T) {
	tests := []struct {
		kind          string
		wantSlug      string
		wantSegmented bool
		wantOK        bool
	}{
		{"FMP4", "fmp4", true, true},
		{"TS", "ts", true, true},
		{"WEBM", "webm", true, true},
		{"CMAF", "cmaf", true, true},
		{"MP4", "mp4", false, true},
		{"PROGRESSIVE_TS", "progressiveTs", false, true},
		{"SOMETHING_NEW", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			meta, ok := ResolveMuxingKind(tt.kind)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if meta.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", meta.Slug, tt.wantSlug)
			}
			if meta.Segmented != tt.wantSegmented {
				t.Errorf("Segmented = %v, want %v", meta.Segmented, tt.wantSegmented)
			}
		})
	}
}

func TestResolveUnknownKindIsSentinel(t *testing.T) {
	meta, ok := ResolveCodecKind("FUTURE_CODEC")
	if ok {
		t.Fatal("unknown codec should not resolve")
	}
	if meta.Kind != Unknown {
		t.Errorf("Kind = %q, want %q", meta.Kind, Unknown)
	}
	if meta.Media != MediaUnknown {
		t.Errorf("Media = %q, want %q", meta.Media, MediaUnknown)
	}
}

func TestCodecMediaType(t *testing.T) {
	tests := []struct {
		kind string
		want MediaType
	}{
		{"H264", MediaVideo},
		{"H265", MediaVideo},
		{"VP9", MediaVideo},
		{"AAC", MediaAudio},
		{"AC3", MediaAudio},
		{"NOT_A_CODEC", MediaUnknown},
	}

	for _, tt := range tests {
		if got := CodecMediaType(tt.kind); got != tt.want {
			t.Errorf("CodecMediaType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestResolveDrmKindSlugs(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"CENC", "cenc"},
		{"AES", "aes"},
		{"CLEARKEY", "clearkey"},
		{"FAIRPLAY", "fairplay"},
		{"WIDEVINE", "widevine"},
		{"PLAYREADY", "playready"},
	}

	for _, tt := range tests {
		meta, ok := ResolveDrmKind(tt.kind)
		if !ok {
			t.Errorf("ResolveDrmKind(%q) did not resolve", tt.kind)
			continue
		}
		if meta.Slug != tt.want {
			t.Errorf("ResolveDrmKind(%q).Slug = %q, want %q", tt.kind, meta.Slug, tt.want)
		}
	}
}

func TestResolveCodecKindSlugs(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"H264", "h264"},
		{"AAC", "aac"},
		{"HE_AAC_V1", "heaacv1"},
		{"HE_AAC_V2", "heaacv2"},
		{"EAC3", "eac3"},
	}

	for _, tt := range tests {
		meta, ok := ResolveCodecKind(tt.kind)
		if !ok {
			t.Errorf("ResolveCodecKind(%q) did not resolve", tt.kind)
			continue
		}
		if meta.Slug != tt.want {
			t.Errorf("ResolveCodecKind(%q).Slug = %q, want %q", tt.kind, meta.Slug, tt.want)
		}
	}
}

func TestIsSegmentedMuxing(t *testing.T) {
	if !IsSegmentedMuxing("FMP4") {
		t.Error("FMP4 should be segmented")
	}
	if IsSegmentedMuxing("MP4") {
		t.Error("MP4 should not be segmented")
	}
	if IsSegmentedMuxing("UNKNOWN_KIND") {
		t.Error("unknown kinds should not report segmented")
	}
}
