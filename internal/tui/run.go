package tui

import (
	"fmt"

	"ipscraper/internal/analyzer"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the live table until the scan summary arrives on done, then
// returns it. Closing the display early does not stop the scan: Run still
// waits for the summary.
func Run(store *analyzer.StatusStore, done <-chan analyzer.Summary, cfg Config) (analyzer.Summary, error) {
	m := initialModel(store, cfg)
	p := tea.NewProgram(m) // AltScreen OFF: 끝난 뒤에도 표가 터미널에 남도록

	result := make(chan analyzer.Summary, 1)
	go func() {
		s, ok := <-done
		result <- s
		if ok {
			// no-op once the program has exited
			p.Send(summaryMsg(s))
		}
	}()

	final, err := p.Run()
	if fm, ok := final.(model); ok && fm.quit && !fm.done {
		fmt.Println(cDim.Render("display closed, waiting for the scan to finish..."))
	}
	return <-result, err
}
