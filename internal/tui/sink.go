package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"kiosoodl/internal/model"
)

type jobQueuedMsg struct{ job model.Job }
type jobStartedMsg struct{ job model.Job }
type jobProgressMsg struct {
	ref     string
	percent float64
}
type jobLogMsg struct {
	ref  string
	line string
}
type jobFinishedMsg struct {
	ref   string
	state string
	rec   model.OutcomeRecord
}
type allDoneMsg struct{}

// Past this many undelivered events, progress and log messages are
// shed. State events are never shed.
const shedThreshold = 1024

// Sink adapts engine events into bubbletea messages. Engine entry
// points fire these while holding the scheduler lock, so every send
// must return immediately: state changes go into a growable buffer,
// and progress/log lines are best-effort once the buffer backs up,
// since a missed repaint is harmless.
type Sink struct {
	mu      sync.Mutex
	ready   *sync.Cond
	pending []tea.Msg
}

func NewSink() *Sink {
	s := &Sink{}
	s.ready = sync.NewCond(&s.mu)
	return s
}

func (s *Sink) push(msg tea.Msg) {
	s.mu.Lock()
	s.pending = append(s.pending, msg)
	s.mu.Unlock()
	s.ready.Signal()
}

func (s *Sink) pushDroppable(msg tea.Msg) {
	s.mu.Lock()
	if len(s.pending) >= shedThreshold {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, msg)
	s.mu.Unlock()
	s.ready.Signal()
}

func (s *Sink) JobQueued(job model.Job)  { s.push(jobQueuedMsg{job: job}) }
func (s *Sink) JobStarted(job model.Job) { s.push(jobStartedMsg{job: job}) }

func (s *Sink) JobProgress(ref string, percent float64) {
	s.pushDroppable(jobProgressMsg{ref: ref, percent: percent})
}

func (s *Sink) JobLog(ref, line string) {
	s.pushDroppable(jobLogMsg{ref: ref, line: line})
}

func (s *Sink) JobFinished(ref, state string, rec model.OutcomeRecord) {
	s.push(jobFinishedMsg{ref: ref, state: state, rec: rec})
}

// Done signals that the engine went idle and the view can exit.
func (s *Sink) Done() { s.push(allDoneMsg{}) }

func (s *Sink) next() tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.pending) == 0 {
		s.ready.Wait()
	}
	msg := s.pending[0]
	s.pending = s.pending[1:]
	return msg
}
