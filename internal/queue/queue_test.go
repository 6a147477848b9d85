package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosoodl/internal/model"
)

func jobs(refs ...string) []model.Job {
	out := make([]model.Job, 0, len(refs))
	for i, ref := range refs {
		out = append(out, model.Job{SourceRef: ref, SequenceIndex: i + 1})
	}
	return out
}

func TestEnqueueManyPreservesOrder(t *testing.T) {
	q := New()

	assert.Equal(t, 3, q.EnqueueMany(jobs("a", "b", "c")))
	assert.Equal(t, 2, q.EnqueueMany(jobs("d", "e")))
	assert.Equal(t, 5, q.Size())

	var got []string
	for {
		job, ok := q.DequeueNext()
		if !ok {
			break
		}
		got = append(got, job.SourceRef)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestDequeueEmptyReturnsImmediately(t *testing.T) {
	q := New()
	_, ok := q.DequeueNext()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Size())
}

func TestRequeueFrontKeepsRelativeOrder(t *testing.T) {
	q := New()
	q.EnqueueMany(jobs("c", "d"))
	q.RequeueFront(jobs("a", "b"))

	first, ok := q.DequeueNext()
	require.True(t, ok)
	assert.Equal(t, "a", first.SourceRef)
	second, _ := q.DequeueNext()
	assert.Equal(t, "b", second.SourceRef)
	third, _ := q.DequeueNext()
	assert.Equal(t, "c", third.SourceRef)
}

func TestDuplicatesAreAllowed(t *testing.T) {
	q := New()
	q.EnqueueMany(jobs("x", "x"))
	assert.Equal(t, 2, q.Size())
}

func TestClearReportsDroppedCount(t *testing.T) {
	q := New()
	q.EnqueueMany(jobs("a", "b", "c"))
	assert.Equal(t, 3, q.Clear())
	assert.Equal(t, 0, q.Size())
	assert.Equal(t, 0, q.Clear())
}
