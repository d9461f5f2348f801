package tui

import (
	"fmt"
	"io"
	"time"

	"ipscraper/internal/analyzer"

	"github.com/fatih/color"
)

var (
	colorPending    = color.New(color.Faint)
	colorProcessing = color.New(color.FgCyan)
	colorReady      = color.New(color.FgGreen, color.Bold)
	colorError      = color.New(color.FgRed, color.Bold)
)

// TextRenderer is the non-interactive display: each refresh it appends one
// line per changed record instead of redrawing rows in place.
type TextRenderer struct {
	w       io.Writer
	store   *analyzer.StatusStore
	refresh time.Duration
}

func NewTextRenderer(w io.Writer, store *analyzer.StatusStore, refresh time.Duration) *TextRenderer {
	if refresh <= 0 {
		refresh = 100 * time.Millisecond
	}
	return &TextRenderer{w: w, store: store, refresh: refresh}
}

// Run prints changes until the summary arrives on done, flushes once more and
// returns the summary.
func (r *TextRenderer) Run(done <-chan analyzer.Summary) analyzer.Summary {
	ticker := time.NewTicker(r.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Flush()
		case s := <-done:
			r.Flush()
			return s
		}
	}
}

// Flush writes every record changed since the previous flush.
func (r *TextRenderer) Flush() int {
	recs := r.store.SnapshotDirty()
	for _, rec := range recs {
		fmt.Fprintln(r.w, colorize(rec))
	}
	return len(recs)
}

func colorize(rec analyzer.FileRecord) string {
	line := FormatLine(rec)
	switch rec.Status.State {
	case analyzer.StateProcessing:
		return colorProcessing.Sprint(line)
	case analyzer.StateReady:
		return colorReady.Sprint(line)
	case analyzer.StateError:
		return colorError.Sprint(line)
	default:
		return colorPending.Sprint(line)
	}
}
