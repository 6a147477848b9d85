// Package history keeps the durable, most-recent-first record of job
// outcomes. Storage is rewritten in full on every append; a missing or
// corrupt file is treated as empty history, never as a fatal error.
package history

import (
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"

	"kiosoodl/internal/model"
	"kiosoodl/internal/store"
)

type Recorder struct {
	mu      sync.Mutex
	path    string
	records []model.OutcomeRecord
	log     *zap.Logger
}

// Load reads the history file once at startup. Storage errors degrade
// to an empty in-memory history.
func Load(path string, log *zap.Logger) *Recorder {
	r := &Recorder{path: path, log: log}
	var records []model.OutcomeRecord
	if err := store.ReadJSON(path, &records); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("history unreadable, starting empty", zap.String("path", path), zap.Error(err))
		}
		return r
	}
	r.records = records
	return r
}

// Append prepends the record and persists the full list. Storage
// errors are logged, never propagated: the in-memory outcome flow must
// not lose a job's result over a disk hiccup.
func (r *Recorder) Append(rec model.OutcomeRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]model.OutcomeRecord, 0, len(r.records)+1)
	records = append(records, rec)
	records = append(records, r.records...)
	r.records = records

	if err := store.WriteJSON(r.path, r.records); err != nil {
		r.log.Warn("history not durably recorded", zap.String("path", r.path), zap.Error(err))
	}
}

// All returns a read-only ordered view, most recent first.
func (r *Recorder) All() []model.OutcomeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.OutcomeRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Clear empties memory and storage.
func (r *Recorder) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	return store.WriteJSON(r.path, []model.OutcomeRecord{})
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
