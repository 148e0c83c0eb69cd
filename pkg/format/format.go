// Package format renders numeric resource fields (bitrates, durations) as
// the display strings used in tables and graph labels.
package format

import "fmt"

var bitrateUnits = []string{"kbps", "Mbps", "Gbps", "Tbps", "Pbps", "Ebps", "Zbps", "Ybps"}

// Bitrate renders a bits-per-second value with a scaled unit suffix.
// The value is divided by 1024 until it fits the unit, shown with one
// decimal place and never below 0.1 (e.g. 5000000 → "4.8 Mbps",
// 512 → "0.5 kbps").
func Bitrate(bps int64) string {
	value := float64(bps)
	unit := 0
	value /= 1024
	for value > 1024 && unit < len(bitrateUnits)-1 {
		value /= 1024
		unit++
	}
	if value < 0.1 {
		value = 0.1
	}
	return fmt.Sprintf("%.1f %s", value, bitrateUnits[unit])
}

// Duration renders a seconds count as HH:MM:SS. Fractional seconds are
// truncated. Durations of 100 hours or more keep growing the hour field.
func Duration(seconds float64) string {
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
