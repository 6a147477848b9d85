package model

import "fmt"

const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
	StateCancelled = "cancelled"
)

var allowedTransitions = map[string]map[string]bool{
	"": {
		StateQueued: true,
	},
	StateQueued: {
		StateQueued:  true,
		StateRunning: true,
	},
	StateRunning: {
		StateSucceeded: true,
		StateFailed:    true,
		StateCancelled: true,
	},
	// Terminal states are final; a retry is a fresh job, never a transition.
	StateSucceeded: {},
	StateFailed:    {},
	StateCancelled: {},
}

func IsKnownState(state string) bool {
	_, ok := allowedTransitions[state]
	return ok
}

func IsTerminalState(state string) bool {
	switch state {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	}
	return false
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func TransitionJobState(job *Job, toState string, reason string) error {
	from := job.State
	if !CanTransition(from, toState) {
		return fmt.Errorf("invalid job state transition: %q -> %q (job_id=%s source=%s)", from, toState, job.JobID, job.SourceRef)
	}
	job.State = toState
	job.Reason = reason
	return nil
}
