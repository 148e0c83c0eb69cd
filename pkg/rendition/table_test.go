package rendition

import (
	"testing"

	"github.com/enclens/enclens/pkg/encodingapi"
)

func findRow(rows []Row, category, field string) *Row {
	for i := range rows {
		if rows[i].Category == category && rows[i].Field == field {
			return &rows[i]
		}
	}
	return nil
}

func TestBuildTableDiffDetection(t *testing.T) {
	rends := testSet().Renditions()
	rows := BuildTable(rends, false)

	if row := findRow(rows, "codec", "height"); row == nil || !row.Diff {
		t.Error("height differs across renditions, row should be marked diff")
	}
	if row := findRow(rows, "encoding", "id"); row == nil || row.Diff {
		t.Error("shared encoding id should not be marked diff")
	}
	if row := findRow(rows, "muxing", "streams"); row != nil {
		t.Error("ignored fields should not produce rows")
	}
}

func TestBuildTableDiffOnly(t *testing.T) {
	rends := testSet().Renditions()
	rows := BuildTable(rends, true)

	if findRow(rows, "encoding", "id") != nil {
		t.Error("diffOnly should drop rows without differences")
	}
	if findRow(rows, "codec", "height") == nil {
		t.Error("diffOnly should keep differing rows")
	}
}

func TestBuildTableTwoValueGroups(t *testing.T) {
	s := NewSet()
	for i, h := range []int{1080, 1080, 720, 720} {
		s.Add(videoRendition(string(rune('a'+i)), "H264", h, 1_000_000))
	}
	rows := BuildTable(s.Renditions(), false)

	row := findRow(rows, "codec", "height")
	if row == nil {
		t.Fatal("height row missing")
	}
	if row.Cells[0].Group != 1 || row.Cells[2].Group != 2 {
		t.Errorf("cells should be tagged by value group, got %+v", row.Cells)
	}
}

func TestTransforms(t *testing.T) {
	if got := Render("codec", "bitrate", int64(4_800_000), true); got != "4,800,000" {
		t.Errorf("bitrate transform = %q, want 4,800,000", got)
	}
	ignored := []encodingapi.IgnoredBy{{IgnoredBy: "PER_TITLE"}, {IgnoredBy: "STREAM_CONDITION"}}
	if got := Render("stream", "ignoredBy", ignored, true); got != "(PER_TITLE + STREAM_CONDITION)" {
		t.Errorf("ignoredBy transform = %q", got)
	}
	settings := &encodingapi.AppliedStreamSettings{Width: 1920, Height: 1080}
	if got := Render("stream", "appliedSettings", settings, true); got != "(1920 x 1080)" {
		t.Errorf("appliedSettings transform = %q", got)
	}
	if got := Render("codec", "height", nil, false); got != "" {
		t.Errorf("inapplicable values should render empty, got %q", got)
	}
}

func TestHighlightedAndIgnored(t *testing.T) {
	if !Highlighted("stream", "ignoredBy") {
		t.Error("ignoredBy should be highlighted in every category")
	}
	if !Ignored("muxing", "streams") {
		t.Error("muxing streams should be ignored")
	}
	if !Ignored("codec", "createdAt") {
		t.Error("shared ignores should apply to every category")
	}
}
