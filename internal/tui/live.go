// Package tui shows live progress for long-running sweeps.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atomoptics/trapscan/internal/optim"
)

const barWidth = 40

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
)

type progressMsg optim.Progress

type doneMsg struct{ err error }

// Model is a bubbletea view fed by sweep progress events. The sweep pushes
// events into a buffered channel; dropped events only degrade the display,
// never the computation.
type Model struct {
	events <-chan optim.Progress
	done   <-chan error

	last     optim.Progress
	start    time.Time
	err      error
	finished bool
}

func NewModel(events <-chan optim.Progress, done <-chan error) Model {
	return Model{events: events, done: done, start: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitEvent(m.events), waitDone(m.done))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.last = optim.Progress(msg)
		return m, waitEvent(m.events)
	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("sweeping control space"))
	b.WriteByte('\n')

	total := m.last.Total
	filled := 0
	if total > 0 {
		filled = barWidth * m.last.Completed / total
	}
	b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(dimStyle.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(fmt.Sprintf(" %d/%d rows", m.last.Completed, total))
	b.WriteByte('\n')

	if m.last.Completed > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("last P1 %.3g mW   elapsed %s",
			m.last.Control1, time.Since(m.start).Round(time.Millisecond))))
		b.WriteByte('\n')
	}
	if m.finished {
		if m.err != nil {
			b.WriteString(fmt.Sprintf("sweep failed: %v\n", m.err))
		} else {
			b.WriteString("done\n")
		}
	}
	return b.String()
}

func waitEvent(ch <-chan optim.Progress) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(ev)
	}
}

func waitDone(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: <-ch}
	}
}

// Run blocks until the sweep signals completion on done or the user quits.
func Run(events <-chan optim.Progress, done <-chan error) error {
	_, err := tea.NewProgram(NewModel(events, done)).Run()
	return err
}
