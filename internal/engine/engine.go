// Package engine implements the download orchestration core: the
// bounded worker pool, in-flight deduplication, outcome bookkeeping,
// and the all-or-nothing cancellation protocol.
package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"kiosoodl/internal/history"
	"kiosoodl/internal/model"
	"kiosoodl/internal/queue"
	"kiosoodl/internal/store"
	"kiosoodl/internal/ytdlp"
)

// jobRunner is what the scheduler holds per active execution. The
// production implementation is ytdlp.Supervisor.
type jobRunner interface {
	Run(cb ytdlp.Callbacks)
	Stop()
}

// Engine admits at most maxConcurrent jobs into execution at a time.
// Admission is edge-triggered: drain runs on submission and on every
// completion, never on a timer. All entry points are short, synchronous
// bookkeeping under one lock; only the supervisors block.
type Engine struct {
	mu   sync.Mutex
	idle *sync.Cond

	maxConcurrent int
	backlog       *queue.Queue
	active        map[string]jobRunner

	recorder *history.Recorder
	sink     Sink
	log      *zap.Logger

	newRunner func(job model.Job, log *zap.Logger) jobRunner
}

func New(maxConcurrent int, recorder *history.Recorder, sink Sink, log *zap.Logger) *Engine {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if sink == nil {
		sink = NopSink{}
	}
	e := &Engine{
		maxConcurrent: maxConcurrent,
		backlog:       queue.New(),
		active:        make(map[string]jobRunner),
		recorder:      recorder,
		sink:          sink,
		log:           log,
		newRunner: func(job model.Job, log *zap.Logger) jobRunner {
			return ytdlp.NewSupervisor(job, log)
		},
	}
	e.idle = sync.NewCond(&e.mu)
	return e
}

// Submit validates the whole batch, enqueues it in order, and drains.
// A malformed descriptor rejects the entire submission with no partial
// admission. An empty submission is accepted and does nothing.
func (e *Engine) Submit(jobs []model.Job) error {
	for i := range jobs {
		if err := model.ValidateJob(jobs[i]); err != nil {
			return err
		}
	}
	for i := range jobs {
		if err := store.Mkdir(jobs[i].Options.DestDir); err != nil {
			return fmt.Errorf("destination unavailable: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range jobs {
		if err := model.TransitionJobState(&jobs[i], model.StateQueued, ""); err != nil {
			return err
		}
		e.sink.JobQueued(jobs[i])
	}
	e.backlog.EnqueueMany(jobs)
	e.drainLocked()
	return nil
}

// Drain admits queued jobs into free slots. Idempotent: a second call
// with no intervening state change admits nothing further.
func (e *Engine) Drain() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drainLocked()
}

// drainLocked is the single admission path. A descriptor whose
// reference is already running is skipped for this pass but kept at
// the front of the queue, so the request is never lost and the same
// item never runs twice concurrently.
func (e *Engine) drainLocked() {
	var skipped []model.Job
	for len(e.active) < e.maxConcurrent {
		job, ok := e.backlog.DequeueNext()
		if !ok {
			break
		}
		if _, running := e.active[job.SourceRef]; running {
			skipped = append(skipped, job)
			continue
		}
		if err := model.TransitionJobState(&job, model.StateRunning, ""); err != nil {
			e.log.Error("admission refused", zap.String("source", job.SourceRef), zap.Error(err))
			continue
		}
		runner := e.newRunner(job, e.log)
		e.active[job.SourceRef] = runner
		e.sink.JobStarted(job)
		e.log.Debug("job admitted",
			zap.String("source", job.SourceRef),
			zap.Int("active", len(e.active)),
			zap.Int("queued", e.backlog.Size()))
		go runner.Run(e.callbacks())
	}
	e.backlog.RequeueFront(skipped)
}

func (e *Engine) callbacks() ytdlp.Callbacks {
	return ytdlp.Callbacks{
		Progress: e.sink.JobProgress,
		Log:      e.sink.JobLog,
		Terminal: e.onJobTerminal,
	}
}

// onJobTerminal is the sole refill path after initial submission: it
// retires the slot, records the outcome, and drains again.
func (e *Engine) onJobTerminal(ref, state string, rec model.OutcomeRecord) {
	e.recorder.Append(rec)

	e.mu.Lock()
	delete(e.active, ref)
	e.drainLocked()
	if len(e.active) == 0 && e.backlog.Size() == 0 {
		e.idle.Broadcast()
	}
	e.mu.Unlock()

	e.sink.JobFinished(ref, state, rec)
	e.log.Info("job finished",
		zap.String("source", ref),
		zap.String("state", state),
		zap.String("title", rec.Title))
}

// CancelAll discards all queued jobs without outcome records (they
// never started) and forcibly stops every running supervisor. Each
// stopped supervisor reports Cancelled, not Failed, through its own
// terminal callback.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	dropped := e.backlog.Clear()
	runners := make([]jobRunner, 0, len(e.active))
	for _, r := range e.active {
		runners = append(runners, r)
	}
	if len(runners) == 0 {
		e.idle.Broadcast()
	}
	e.mu.Unlock()

	if dropped > 0 {
		e.log.Info("queued jobs dropped", zap.Int("count", dropped))
	}
	for _, r := range runners {
		r.Stop()
	}
}

// SetMaxConcurrent adjusts the pool bound between submissions. A
// lowered bound never preempts running jobs; a raised bound drains
// immediately.
func (e *Engine) SetMaxConcurrent(n int) {
	if n < 1 {
		n = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	raised := n > e.maxConcurrent
	e.maxConcurrent = n
	if raised {
		e.drainLocked()
	}
}

// Wait blocks until the engine is idle: nothing running and nothing
// queued.
func (e *Engine) Wait() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.active) > 0 || e.backlog.Size() > 0 {
		e.idle.Wait()
	}
}

func (e *Engine) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

func (e *Engine) QueuedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backlog.Size()
}
