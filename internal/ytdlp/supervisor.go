package ytdlp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"kiosoodl/internal/model"
	"kiosoodl/internal/progress"
)

// Callbacks receive supervisor events. Progress and Log fire inline
// per output line, in source order; Terminal fires exactly once.
type Callbacks struct {
	Progress func(ref string, pct float64)
	Log      func(ref, line string)
	Terminal func(ref string, state string, rec model.OutcomeRecord)
}

// Supervisor owns one external yt-dlp process for one admitted job: it
// builds the argument vector, streams the merged output line by line,
// and classifies the exit.
type Supervisor struct {
	job model.Job
	log *zap.Logger

	stop atomic.Bool

	mu   sync.Mutex
	proc *os.Process
}

func NewSupervisor(job model.Job, log *zap.Logger) *Supervisor {
	return &Supervisor{job: job, log: log}
}

// Stop requests forceful termination. Safe to call at any point in the
// supervisor's lifetime, including before Run.
func (s *Supervisor) Stop() {
	s.stop.Store(true)
	s.killProcess()
}

// Run launches the process and blocks until it reaches a terminal
// state. The line loop always ends: either the process exits on its
// own or a stop kills it.
func (s *Supervisor) Run(cb Callbacks) {
	ref := s.job.SourceRef

	if s.stop.Load() {
		cb.Terminal(ref, model.StateCancelled, model.NewOutcome(ref, false, "", "cancelled before start"))
		return
	}

	args, warnings := BuildDownloadArgs(s.job)
	for _, w := range warnings {
		s.log.Warn(w, zap.String("source", ref))
	}

	cmd := exec.Command(Executable(), args...)
	pr, pw, err := os.Pipe()
	if err != nil {
		cb.Terminal(ref, model.StateFailed, model.NewOutcome(ref, false, "", fmt.Sprintf("launch: %v", err)))
		return
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		cb.Terminal(ref, model.StateFailed, model.NewOutcome(ref, false, "", fmt.Sprintf("launch: %v", err)))
		return
	}
	_ = pw.Close()

	s.mu.Lock()
	s.proc = cmd.Process
	s.mu.Unlock()
	if s.stop.Load() {
		_ = cmd.Process.Kill()
	}

	var capture progress.PathCapture
	itemID := ref
	s.streamLines(pr, cb, &capture, &itemID)
	_ = pr.Close()

	stopped := s.stop.Load()
	waitErr := cmd.Wait()
	if s.stop.Load() {
		stopped = true
	}

	switch {
	case stopped:
		cb.Terminal(ref, model.StateCancelled, model.NewOutcome(itemID, false, capture.Path(), "cancelled"))
	case waitErr == nil:
		if cb.Progress != nil {
			cb.Progress(ref, 100)
		}
		cb.Terminal(ref, model.StateSucceeded, model.NewOutcome(itemID, true, capture.Path(), ""))
	default:
		detail := waitErr.Error()
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			detail = fmt.Sprintf("exit code %d", exitErr.ExitCode())
		}
		cb.Terminal(ref, model.StateFailed, model.NewOutcome(itemID, false, capture.Path(), detail))
	}
}

// streamLines consumes the merged output until EOF, a read error, or a
// stop request. A read error ends progress forwarding, so it is logged
// rather than discarded.
func (s *Supervisor) streamLines(r io.Reader, cb Callbacks, capture *progress.PathCapture, itemID *string) {
	ref := s.job.SourceRef

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	scanner.Split(splitByNewlineOrCR)
	for scanner.Scan() {
		if s.stop.Load() {
			s.killProcess()
			break
		}
		line := scanner.Text()
		ev := progress.Classify(line)
		switch ev.Kind {
		case progress.KindPercent:
			if cb.Progress != nil {
				cb.Progress(ref, ev.Percent)
			}
		case progress.KindOutputPath:
			capture.Observe(ev)
		case progress.KindMediaID:
			*itemID = ev.MediaID
		}
		if cb.Log != nil {
			cb.Log(ref, line)
		}
	}
	if err := scanner.Err(); err != nil && !s.stop.Load() {
		s.log.Warn("output stream read failed", zap.String("source", ref), zap.Error(err))
	}
}

func (s *Supervisor) killProcess() {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()
	if proc != nil {
		_ = proc.Kill()
	}
}

// splitByNewlineOrCR tokenizes on both \n and \r so yt-dlp's
// carriage-return progress rewrites arrive as individual lines.
func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
