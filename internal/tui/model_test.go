package tui

import (
	"testing"
	"time"

	"ipscraper/internal/analyzer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestModelTickRendersDirtyRows(t *testing.T) {
	store := analyzer.NewStatusStore()
	store.Register("a.log")
	store.Register("b.log")
	store.Register("c.log")

	m := initialModel(store, Config{Refresh: time.Millisecond})
	m, cmd := step(t, m, tickMsg(time.Now()))
	assert.NotNil(t, cmd, "keeps ticking")

	rows := m.tab.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Pending", rows[0][0])
	assert.Equal(t, "c.log", rows[2][1])

	store.Update("b.log", analyzer.Ready, 2500, 7)
	m, _ = step(t, m, tickMsg(time.Now()))

	rows = m.tab.Rows()
	assert.Equal(t, "Pending", rows[0][0], "untouched row")
	assert.Equal(t, []string{"Ready", "b.log", "2,500", "7"}, []string(rows[1]))
	assert.InDelta(t, 1.0/3.0, m.percent(), 1e-9)
}

func TestModelCollectsErrors(t *testing.T) {
	store := analyzer.NewStatusStore()
	store.Register("bad.log")
	store.Update("bad.log", analyzer.Failed("disk on fire"), 0, 0)

	m := initialModel(store, Config{})
	m, _ = step(t, m, tickMsg(time.Now()))
	// a repeated terminal record must not be counted again
	m, _ = step(t, m, tickMsg(time.Now()))

	assert.Equal(t, 1, m.failed)
	assert.Equal(t, []string{"[bad.log] disk on fire"}, m.errLines)
	assert.Equal(t, "Error - disk on fire", m.tab.Rows()[0][0])
}

func TestModelSummaryFlushesAndQuits(t *testing.T) {
	store := analyzer.NewStatusStore()
	store.Register("a.log")

	m := initialModel(store, Config{})
	m, _ = step(t, m, tickMsg(time.Now()))

	store.Update("a.log", analyzer.Ready, 1, 1)
	m, cmd := step(t, m, summaryMsg(analyzer.Summary{Files: 1, Unique: 1}))

	require.NotNil(t, cmd)
	assert.True(t, m.done)
	require.NotNil(t, m.summary)
	assert.Equal(t, 1, m.summary.Unique)
	assert.Equal(t, "Ready", m.tab.Rows()[0][0])
	assert.Equal(t, 1.0, m.percent())

	_, cmd = step(t, m, tickMsg(time.Now()))
	assert.Nil(t, cmd, "no more ticks after the summary")
	assert.Contains(t, m.View(), "DONE")
}

func TestModelQuitKeepsScanRunning(t *testing.T) {
	store := analyzer.NewStatusStore()
	m := initialModel(store, Config{})

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.quit)
	assert.False(t, m.done)
}

func TestModelTabSwitchesFocus(t *testing.T) {
	m := initialModel(analyzer.NewStatusStore(), Config{})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusErrors, m.focus)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusTable, m.focus)
}
