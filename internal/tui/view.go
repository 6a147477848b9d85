// Package tui renders the live download queue: one row per job with a
// progress bar, plus the most recent raw output line.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"kiosoodl/internal/model"
)

type canceller interface {
	CancelAll()
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	queuedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cancelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	logLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type row struct {
	job     model.Job
	state   string
	percent float64
	title   string
	bar     progress.Model
}

type Model struct {
	sink    *Sink
	engine  canceller
	rows    []*row
	lastLog string
	width   int
	pending int
	done    bool
}

func NewModel(sink *Sink, engine canceller) *Model {
	return &Model{sink: sink, engine: engine, width: 80}
}

// Run blocks until every job finished or the user quit.
func Run(m *Model) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return m.sink.next()
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for _, r := range m.rows {
			r.bar.Width = barWidth(m.width)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.CancelAll()
			return m, m.waitForEvent()
		}
		return m, nil

	case jobQueuedMsg:
		bar := progress.New(progress.WithDefaultGradient())
		bar.Width = barWidth(m.width)
		m.rows = append(m.rows, &row{job: msg.job, state: model.StateQueued, bar: bar})
		m.pending++
		return m, m.waitForEvent()

	case jobStartedMsg:
		if r := m.findRow(msg.job.SourceRef, model.StateQueued); r != nil {
			r.state = model.StateRunning
		}
		return m, m.waitForEvent()

	case jobProgressMsg:
		if r := m.findRow(msg.ref, model.StateRunning); r != nil {
			r.percent = msg.percent
		}
		return m, m.waitForEvent()

	case jobLogMsg:
		m.lastLog = msg.line
		return m, m.waitForEvent()

	case jobFinishedMsg:
		if r := m.findRow(msg.ref, model.StateRunning); r != nil {
			r.state = msg.state
			r.title = msg.rec.Title
			if msg.state == model.StateSucceeded {
				r.percent = 100
			}
			m.pending--
		}
		return m, m.waitForEvent()

	case allDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, m.waitForEvent()
}

// findRow locates the row for a source reference in the given state.
// Duplicate references never run concurrently, so state disambiguates.
func (m *Model) findRow(ref, state string) *row {
	for _, r := range m.rows {
		if r.job.SourceRef == ref && r.state == state {
			return r
		}
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("KiosooDL downloads"))
	b.WriteString("\n\n")

	for _, r := range m.rows {
		label := r.title
		if label == "" {
			label = r.job.SourceRef
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			stateBadge(r.state),
			r.bar.ViewAs(r.percent/100),
			truncate(label, m.width-barWidth(m.width)-16)))
	}

	b.WriteString("\n")
	if m.lastLog != "" {
		b.WriteString(logLineStyle.Render(truncate(m.lastLog, m.width-2)))
		b.WriteString("\n")
	}
	b.WriteString(helpLineStyle.Render("q: stop all and quit"))
	b.WriteString("\n")
	return b.String()
}

func stateBadge(state string) string {
	switch state {
	case model.StateQueued:
		return queuedStyle.Render("queued ")
	case model.StateRunning:
		return runningStyle.Render("running")
	case model.StateSucceeded:
		return doneStyle.Render("done   ")
	case model.StateFailed:
		return failStyle.Render("failed ")
	case model.StateCancelled:
		return cancelStyle.Render("stopped")
	default:
		return state
	}
}

func barWidth(total int) int {
	w := total / 3
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	return runewidth.Truncate(s, max, "...")
}
