package rendition

import (
	"testing"

	"github.com/enclens/enclens/pkg/encodingapi"
	apperr "github.com/enclens/enclens/pkg/errors"
)

func videoRendition(id string, codecType string, height int, bitrate int64) *Rendition {
	return &Rendition{
		Encoding: &encodingapi.Encoding{ID: "enc-1", Status: "FINISHED"},
		Stream:   &encodingapi.Stream{ID: "stream-" + id, CodecConfigID: "cfg-" + id},
		Codec: &encodingapi.CodecConfiguration{
			ID:      "cfg-" + id,
			Type:    codecType,
			Width:   height * 16 / 9,
			Height:  height,
			Bitrate: bitrate,
		},
		Muxing: &encodingapi.Muxing{ID: "mux-" + id, Type: "FMP4"},
	}
}

func audioRendition(id string, bitrate int64) *Rendition {
	return &Rendition{
		Encoding: &encodingapi.Encoding{ID: "enc-1", Status: "FINISHED"},
		Stream:   &encodingapi.Stream{ID: "stream-" + id, CodecConfigID: "cfg-" + id},
		Codec: &encodingapi.CodecConfiguration{
			ID:            "cfg-" + id,
			Type:          "AAC",
			Bitrate:       bitrate,
			ChannelLayout: "STEREO",
		},
		Muxing: &encodingapi.Muxing{ID: "mux-" + id, Type: "FMP4"},
	}
}

func testSet() *Set {
	s := NewSet()
	s.Add(videoRendition("a", "H264", 720, 3_000_000))
	s.Add(videoRendition("b", "H264", 1080, 4_800_000))
	s.Add(videoRendition("c", "H265", 1080, 3_500_000))
	s.Add(audioRendition("d", 128_000))
	return s
}

func ids(rends []*Rendition) []string {
	out := make([]string, len(rends))
	for i, r := range rends {
		out[i] = r.Codec.ID
	}
	return out
}

func TestValueForFieldApplicability(t *testing.T) {
	video := videoRendition("a", "H264", 1080, 4_800_000)
	audio := audioRendition("b", 128_000)

	if v, ok := video.ValueForField("codec", "height"); !ok || v != int64(1080) {
		t.Errorf("video height = (%v, %v), want (1080, true)", v, ok)
	}
	if _, ok := audio.ValueForField("codec", "height"); ok {
		t.Error("height should not apply to an audio rendition")
	}
	if v, ok := audio.ValueForField("codec", "channelLayout"); !ok || v != "STEREO" {
		t.Errorf("channelLayout = (%v, %v), want (STEREO, true)", v, ok)
	}
}

func TestFilterDefaulting(t *testing.T) {
	s := testSet()

	// one part defaults to codec:type
	matched, errs := s.Filter("H265")
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if got := ids(matched); len(got) != 1 || got[0] != "cfg-c" {
		t.Errorf("Filter(H265) = %v, want [cfg-c]", got)
	}

	// two parts default to codec
	matched, errs = s.Filter("height:720")
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if got := ids(matched); len(got) != 1 || got[0] != "cfg-a" {
		t.Errorf("Filter(height:720) = %v, want [cfg-a]", got)
	}
}

func TestFilterOrWithinFieldAndAcrossFields(t *testing.T) {
	s := testSet()

	// same field twice is OR, the type clause is AND
	matched, errs := s.Filter("height:1080,height:720,H264")
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if got := ids(matched); len(got) != 2 {
		t.Fatalf("matched = %v, want the two H264 renditions", got)
	}

	// clause order does not change the result
	reordered, _ := s.Filter("H264,height:720,height:1080")
	if len(reordered) != len(matched) {
		t.Errorf("reordered filter matched %d, want %d", len(reordered), len(matched))
	}
	for i := range matched {
		if matched[i] != reordered[i] {
			t.Errorf("reordered filter returned different renditions at %d", i)
		}
	}
}

func TestFilterInvalidClausesDroppedButReported(t *testing.T) {
	s := testSet()

	matched, errs := s.Filter("planet:field:value,nosuchfield:1,H264")
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want 2", errs)
	}
	if !apperr.Is(errs[0], apperr.ErrCodeInvalidCategory) {
		t.Errorf("errs[0] = %v, want INVALID_CATEGORY", errs[0])
	}
	if !apperr.Is(errs[1], apperr.ErrCodeInvalidField) {
		t.Errorf("errs[1] = %v, want INVALID_FIELD", errs[1])
	}
	// the valid clause still applies
	for _, r := range matched {
		if r.Codec.Type != "H264" {
			t.Errorf("invalid clauses should not disable valid ones, got %s", r.Codec.Type)
		}
	}
}

func TestFilterMalformedClause(t *testing.T) {
	s := testSet()
	_, errs := s.Filter("a:b:c:d")
	if len(errs) != 1 || !apperr.Is(errs[0], apperr.ErrCodeInvalidFilter) {
		t.Errorf("errs = %v, want one INVALID_FILTER", errs)
	}
}

func TestFilterSortsByHeightThenBitrate(t *testing.T) {
	s := testSet()
	matched, _ := s.Filter("")

	got := ids(matched)
	want := []string{"cfg-b", "cfg-c", "cfg-a", "cfg-d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestCollectFieldsPinsFirst(t *testing.T) {
	s := testSet()
	fields := CollectFields(s.Renditions(), "codec")
	if fields[0] != "id" || fields[1] != "mediaType" || fields[2] != "type" {
		t.Errorf("pinned fields not first: %v", fields[:3])
	}
	found := false
	for _, f := range fields {
		if f == "channelLayout" {
			found = true
		}
	}
	if !found {
		t.Error("fields carried by any rendition should be collected")
	}
}
