package tui

import (
	"fmt"
	"strings"
	"time"

	"ipscraper/internal/analyzer"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusTable focusArea = iota
	focusErrors
)

const maxTableHeight = 12

var (
	cTitle = lipgloss.NewStyle().Bold(true)
	cDim   = lipgloss.NewStyle().Faint(true)

	box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	headerBar = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			Padding(0, 1)

	badgeOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	badgeRun = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	badgeErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	keyHint = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

type summaryMsg analyzer.Summary

type model struct {
	width  int
	height int

	started time.Time

	prog progress.Model
	spin spinner.Model
	tab  table.Model
	errs viewport.Model

	cfg   Config
	store *analyzer.StatusStore

	// rows are owned by the renderer; only SnapshotDirty feeds them.
	rows      []table.Row
	terminal  map[int]bool
	failed    int
	errLines  []string
	filesSeen int

	summary *analyzer.Summary
	done    bool
	quit    bool

	focus focusArea
}

func initialModel(store *analyzer.StatusStore, cfg Config) model {
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot

	cols := []table.Column{
		{Title: "Status", Width: 24},
		{Title: "File", Width: 44},
		{Title: "Lines/sec", Width: 12},
		{Title: "Unique IPs", Width: 10},
	}

	t := table.New(table.WithColumns(cols), table.WithFocused(true))
	t.SetHeight(2)

	st := table.DefaultStyles()
	st.Header = st.Header.Bold(true)
	st.Selected = st.Selected.Bold(true)
	t.SetStyles(st)

	vp := viewport.New(60, 6)
	vp.SetContent(cDim.Render("no errors"))

	if cfg.Refresh <= 0 {
		cfg.Refresh = 100 * time.Millisecond
	}

	return model{
		started:  time.Now(),
		prog:     p,
		spin:     s,
		tab:      t,
		errs:     vp,
		cfg:      cfg,
		store:    store,
		terminal: make(map[int]bool),
		focus:    focusTable,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.tick())
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// flush pulls the records changed since the last frame and rewrites only
// their rows.
func (m *model) flush() {
	recs := m.store.SnapshotDirty()
	if len(recs) == 0 {
		return
	}
	for _, rec := range recs {
		for rec.Row >= len(m.rows) {
			m.rows = append(m.rows, table.Row{"", "", "", ""})
		}
		m.rows[rec.Row] = table.Row{
			rec.Status.String(), // the table truncates long messages to the column
			rec.File,
			formatRate(rec.Rate),
			formatCount(rec.UniqueCount),
		}
		if rec.Status.State.Terminal() && !m.terminal[rec.Row] {
			m.terminal[rec.Row] = true
			if rec.Status.State == analyzer.StateError {
				m.failed++
				m.errLines = append(m.errLines, fmt.Sprintf("[%s] %s", rec.File, rec.Status.Message))
				m.errs.SetContent(badgeErr.Render(strings.Join(m.errLines, "\n")))
				m.errs.GotoBottom()
			}
		}
	}
	m.filesSeen = len(m.rows)
	m.tab.SetRows(m.rows)
	m.tab.SetHeight(minInt(maxTableHeight, len(m.rows)+1))
}

func (m model) percent() float64 {
	if m.filesSeen == 0 {
		return 0
	}
	return float64(len(m.terminal)) / float64(m.filesSeen)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.prog.Width = clamp(m.width-12, 20, 90)

		leftW := clamp(m.width*2/3, 50, 110)
		cols := m.tab.Columns()
		cols[1].Width = clamp(leftW-57, 20, 80)
		m.tab.SetColumns(cols)

		rightW := maxInt(30, m.width-leftW-3)
		m.errs.Width = clamp(rightW-4, 26, 120)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case "tab":
			if m.focus == focusTable {
				m.focus = focusErrors
			} else {
				m.focus = focusTable
			}
			return m, nil
		default:
			// route arrows to focused widget
			var cmd tea.Cmd
			if m.focus == focusTable {
				m.tab, cmd = m.tab.Update(msg)
			} else {
				m.errs, cmd = m.errs.Update(msg)
			}
			return m, cmd
		}

	case tickMsg:
		m.flush()
		if m.done {
			return m, nil
		}
		return m, m.tick()

	case summaryMsg:
		// 마지막 flush로 모든 파일의 최종 상태를 반영
		m.flush()
		s := analyzer.Summary(msg)
		m.summary = &s
		m.done = true
		return m, tea.Quit

	default:
		return m, nil
	}
}

func (m model) View() string {
	statusBadge := badgeRun.Render(" " + m.spin.View() + " SCANNING ")
	if m.done {
		statusBadge = badgeOK.Render(" DONE ")
	}

	headLeft := cTitle.Render("IP Scraper") + " " + statusBadge
	headRight := cDim.Render(fmt.Sprintf("root=%s  workers=%d  output=%s", m.cfg.Root, m.cfg.Concurrent, m.cfg.Output))
	header := headerBar.Width(maxInt(0, m.width-2)).Render(headLeft + "\n" + headRight)

	elapsed := time.Since(m.started).Truncate(100 * time.Millisecond)
	bar := m.prog.ViewAs(m.percent())

	stats := fmt.Sprintf("Files %d/%d  Errors %d  Elapsed %s",
		len(m.terminal), m.filesSeen, m.failed, elapsed)
	if m.summary != nil {
		stats += fmt.Sprintf("  Unique IPs %d", m.summary.Unique)
	}

	top := joinLines(header, "", bar, cDim.Render(stats))

	leftW := clamp(m.width*2/3, 50, 110)
	rightW := maxInt(30, m.width-leftW-3)

	tableBox := box.Width(leftW).Render(cTitle.Render("Files") + "\n" + m.tab.View())
	errBox := box.Width(rightW).Render(cTitle.Render("Errors") + "\n" + m.errs.View())
	row := lipgloss.JoinHorizontal(lipgloss.Top, tableBox, " ", errBox)

	focusTag := cDim.Render("Focus: TABLE (tab to switch)")
	if m.focus == focusErrors {
		focusTag = cDim.Render("Focus: ERRORS (tab to switch)")
	}
	hint := keyHint.Render("Keys: tab focus | ↑/↓ scroll (focused) | q close display (scan keeps running)")

	return joinLines(top, "", focusTag, "", row, "", hint) + "\n"
}

func joinLines(lines ...string) string { return strings.Join(lines, "\n") }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
