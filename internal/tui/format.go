package tui

import (
	"fmt"
	"time"

	"ipscraper/internal/analyzer"

	"github.com/dustin/go-humanize"
)

// FormatLine renders one record as
// "<status> - <file>[ - Rate: <N> lines/sec][ - Unique IPs: <N>]".
// The suffixes appear only once the values are known (> 0).
func FormatLine(rec analyzer.FileRecord) string {
	line := fmt.Sprintf("%s - %s", rec.Status, rec.File)
	if rec.Rate > 0 {
		line += fmt.Sprintf(" - Rate: %s lines/sec", humanize.Comma(int64(rec.Rate+0.5)))
	}
	if rec.UniqueCount > 0 {
		line += fmt.Sprintf(" - Unique IPs: %s", humanize.Comma(int64(rec.UniqueCount)))
	}
	return line
}

func formatRate(rate float64) string {
	if rate <= 0 {
		return "-"
	}
	return humanize.Comma(int64(rate + 0.5))
}

func formatCount(n int) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Comma(int64(n))
}

// FormatElapsed prints d as hh:mm:ss.
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}
