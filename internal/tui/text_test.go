package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ipscraper/internal/analyzer"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestTextRendererFlushesOnlyChanges(t *testing.T) {
	noColor(t)
	store := analyzer.NewStatusStore()
	store.Register("a.log")
	store.Register("b.log")

	var buf bytes.Buffer
	r := NewTextRenderer(&buf, store, time.Hour)

	assert.Equal(t, 2, r.Flush())
	assert.Equal(t, 0, r.Flush())

	store.Update("b.log", analyzer.Ready, 10, 3)
	assert.Equal(t, 1, r.Flush())

	assert.Equal(t, "Pending - a.log\nPending - b.log\nReady - b.log - Rate: 10 lines/sec - Unique IPs: 3\n", buf.String())
}

func TestTextRendererFinalFlushOnDone(t *testing.T) {
	noColor(t)
	store := analyzer.NewStatusStore()
	store.Register("a.log")
	store.Update("a.log", analyzer.Failed("open a.log: permission denied"), 0, 0)

	done := make(chan analyzer.Summary, 1)
	done <- analyzer.Summary{Files: 1, Completed: 1, Failed: 1}

	var buf bytes.Buffer
	sum := NewTextRenderer(&buf, store, time.Hour).Run(done)

	assert.Equal(t, 1, sum.Failed)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "coalesced to the latest value")
	assert.Equal(t, "Error - open a.log: permission denied - a.log", lines[0])
}

func TestTextRendererWithRealRun(t *testing.T) {
	noColor(t)
	store := analyzer.NewStatusStore()
	done := make(chan analyzer.Summary, 1)

	go func() {
		for _, f := range []string{"x.log", "y.log"} {
			store.Register(f)
			store.Update(f, analyzer.Processing, 0, 0)
			store.Update(f, analyzer.Ready, 5, 1)
		}
		done <- analyzer.Summary{Files: 2}
	}()

	var buf bytes.Buffer
	NewTextRenderer(&buf, store, time.Millisecond).Run(done)

	out := buf.String()
	assert.Contains(t, out, "Ready - x.log")
	assert.Contains(t, out, "Ready - y.log")
	last := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		for _, f := range []string{"x.log", "y.log"} {
			if strings.Contains(line, f) {
				last[f] = line
			}
		}
	}
	assert.Equal(t, "Ready - x.log - Rate: 5 lines/sec - Unique IPs: 1", last["x.log"])
	assert.Equal(t, "Ready - y.log - Rate: 5 lines/sec - Unique IPs: 1", last["y.log"])
}
