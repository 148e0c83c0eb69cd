package format

import (
	"strings"
	"testing"
)

func TestBitrate(t *testing.T) {
	tests := []struct {
		name string
		bps  int64
		want string
	}{
		{"Kilobits", 512, "0.5 kbps"},
		{"TypicalAudio", 128_000, "125.0 kbps"},
		{"Megabits", 5_000_000, "4.8 Mbps"},
		{"Gigabits", 3_000_000_000, "2.8 Gbps"},
		{"TinyFloorsAtTenth", 5, "0.1 kbps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bitrate(tt.bps); got != tt.want {
				t.Errorf("Bitrate(%d) = %q, want %q", tt.bps, got, tt.want)
			}
		})
	}
}

func TestBitrateUnitSelection(t *testing.T) {
	if got := Bitrate(5_000_000); !strings.HasSuffix(got, "Mbps") {
		t.Errorf("Bitrate(5_000_000) = %q, want Mbps suffix", got)
	}
	if got := Bitrate(512); !strings.HasSuffix(got, "kbps") {
		t.Errorf("Bitrate(512) = %q, want kbps suffix", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"Zero", 0, "00:00:00"},
		{"UnderAMinute", 59.9, "00:00:59"},
		{"Mixed", 3723, "01:02:03"},
		{"LongMovie", 7261.5, "02:01:01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.seconds); got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}
