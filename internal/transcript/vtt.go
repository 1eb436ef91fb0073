package transcript

import (
	"fmt"
	"strings"
)

// ToVTT renders timed chunks as WebVTT. Chunk offsets and durations are
// in milliseconds.
func ToVTT(chunks []Chunk) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	writeCues(&sb, chunks, '.')
	return sb.String()
}

// ToSRT renders timed chunks as SubRip.
func ToSRT(chunks []Chunk) string {
	var sb strings.Builder
	writeCues(&sb, chunks, ',')
	return sb.String()
}

func writeCues(sb *strings.Builder, chunks []Chunk, msSep byte) {
	n := 0
	for _, c := range chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		n++
		fmt.Fprintf(sb, "%d\n%s --> %s\n%s\n\n",
			n, formatCueTime(c.Offset, msSep), formatCueTime(c.Offset+c.Duration, msSep), text)
	}
}

func formatCueTime(ms float64, sep byte) string {
	if ms < 0 {
		ms = 0
	}
	total := int64(ms + 0.5)
	h := total / 3600000
	total %= 3600000
	m := total / 60000
	total %= 60000
	s := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, total%1000)
}
