package engine

import "kiosoodl/internal/model"

// Sink receives engine events. JobQueued and JobStarted may fire while
// the scheduler lock is held, so implementations must not call back
// into the engine and should return quickly.
type Sink interface {
	JobQueued(job model.Job)
	JobStarted(job model.Job)
	JobProgress(ref string, percent float64)
	JobLog(ref, line string)
	JobFinished(ref, state string, rec model.OutcomeRecord)
}

type NopSink struct{}

func (NopSink) JobQueued(model.Job)                             {}
func (NopSink) JobStarted(model.Job)                            {}
func (NopSink) JobProgress(string, float64)                     {}
func (NopSink) JobLog(string, string)                           {}
func (NopSink) JobFinished(string, string, model.OutcomeRecord) {}
