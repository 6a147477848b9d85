// Package queue holds pending job descriptors in submission order.
//
// The queue itself is not safe for concurrent use: the scheduler owns
// it and serializes every mutation behind its own lock. It performs no
// deduplication; the same source reference may appear more than once
// when the caller submitted it more than once.
package queue

import "kiosoodl/internal/model"

type Queue struct {
	items []model.Job
}

func New() *Queue {
	return &Queue{}
}

// EnqueueMany appends the descriptors preserving their order and
// returns the count accepted, which is always all of them since the
// queue is unbounded.
func (q *Queue) EnqueueMany(jobs []model.Job) int {
	q.items = append(q.items, jobs...)
	return len(jobs)
}

// DequeueNext removes and returns the front item. It never blocks; an
// empty queue reports ok=false immediately.
func (q *Queue) DequeueNext() (model.Job, bool) {
	if len(q.items) == 0 {
		return model.Job{}, false
	}
	job := q.items[0]
	q.items = q.items[1:]
	return job, true
}

// RequeueFront puts jobs back at the head of the queue, preserving
// their relative order. Used by the scheduler when a drain pass skips
// descriptors whose reference is already running.
func (q *Queue) RequeueFront(jobs []model.Job) {
	if len(jobs) == 0 {
		return
	}
	merged := make([]model.Job, 0, len(jobs)+len(q.items))
	merged = append(merged, jobs...)
	merged = append(merged, q.items...)
	q.items = merged
}

func (q *Queue) Size() int {
	return len(q.items)
}

// Clear drops every pending descriptor and returns how many were
// discarded. Dropped jobs never started, so no outcome is recorded
// for them.
func (q *Queue) Clear() int {
	n := len(q.items)
	q.items = nil
	return n
}
