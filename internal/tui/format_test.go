package tui

import (
	"testing"
	"time"

	"ipscraper/internal/analyzer"

	"github.com/stretchr/testify/assert"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name string
		rec  analyzer.FileRecord
		want string
	}{
		{
			name: "pending",
			rec:  analyzer.FileRecord{File: "a.log", Status: analyzer.Pending},
			want: "Pending - a.log",
		},
		{
			name: "processing with rate only",
			rec:  analyzer.FileRecord{File: "a.log", Status: analyzer.Processing, Rate: 999.6},
			want: "Processing - a.log - Rate: 1,000 lines/sec",
		},
		{
			name: "ready",
			rec:  analyzer.FileRecord{File: "dns.log", Status: analyzer.Ready, Rate: 1234567.2, UniqueCount: 1500},
			want: "Ready - dns.log - Rate: 1,234,567 lines/sec - Unique IPs: 1,500",
		},
		{
			name: "ready without matches",
			rec:  analyzer.FileRecord{File: "empty.log", Status: analyzer.Ready},
			want: "Ready - empty.log",
		},
		{
			name: "error",
			rec:  analyzer.FileRecord{File: "b.log", Status: analyzer.Failed("permission denied")},
			want: "Error - permission denied - b.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLine(tt.rec))
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatElapsed(0))
	assert.Equal(t, "00:00:02", FormatElapsed(1600*time.Millisecond))
	assert.Equal(t, "01:02:05", FormatElapsed(time.Hour+2*time.Minute+5*time.Second))
	assert.Equal(t, "26:00:00", FormatElapsed(26*time.Hour))
}

func TestFormatCells(t *testing.T) {
	assert.Equal(t, "-", formatRate(0))
	assert.Equal(t, "12,346", formatRate(12345.5))
	assert.Equal(t, "-", formatCount(0))
	assert.Equal(t, "42", formatCount(42))
}
