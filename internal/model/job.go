package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Quality tiers understood by the format selector.
const (
	QualityBest  = "best"
	Quality1080p = "1080p"
	Quality720p  = "720p"
	Quality480p  = "480p"
	QualityAudio = "audio"
)

// SubLangDefault leaves subtitle language selection to the source.
const SubLangDefault = "default"

// DownloadOptions are per-invocation settings, shared across a batch
// unless the caller overrides them. Validated once at submission time
// and never re-interpreted downstream.
type DownloadOptions struct {
	Quality      string `json:"quality"`
	Container    string `json:"container,omitempty"`
	Numbering    bool   `json:"numbering,omitempty"`
	AutoSubs     bool   `json:"auto_subs,omitempty"`
	ManualSubs   bool   `json:"manual_subs,omitempty"`
	SubLang      string `json:"sub_lang,omitempty"`
	Thumbnail    bool   `json:"thumbnail,omitempty"`
	Metadata     bool   `json:"metadata,omitempty"`
	SponsorStrip bool   `json:"sponsor_strip,omitempty"`
	DestDir      string `json:"dest_dir"`
	ArchivePath  string `json:"archive_path,omitempty"`
	CookiesPath  string `json:"cookies_path,omitempty"`
}

// Job is one request to fetch a single media item. Immutable once
// enqueued except for its State/Reason bookkeeping fields.
type Job struct {
	JobID         string          `json:"job_id"`
	SourceRef     string          `json:"source_ref"`
	SequenceIndex int             `json:"sequence_index,omitempty"` // 1-based within its batch, 0 when absent
	BatchSize     int             `json:"batch_size,omitempty"`     // total items in the batch, 0 when absent
	Options       DownloadOptions `json:"options"`
	State         string          `json:"state,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

// NewBatch builds job descriptors for a set of source references that
// were submitted together. All jobs share the same options; sequence
// indexes are assigned in submission order.
func NewBatch(refs []string, opts DownloadOptions) []Job {
	jobs := make([]Job, 0, len(refs))
	for i, ref := range refs {
		jobs = append(jobs, Job{
			JobID:         uuid.NewString(),
			SourceRef:     strings.TrimSpace(ref),
			SequenceIndex: i + 1,
			BatchSize:     len(refs),
			Options:       opts,
		})
	}
	return jobs
}

func IsKnownQuality(quality string) bool {
	switch quality {
	case QualityBest, Quality1080p, Quality720p, Quality480p, QualityAudio:
		return true
	}
	return false
}

// ValidateJob rejects malformed descriptors before any admission. It
// covers configuration-level errors only; runtime failures (missing
// executable, dead URL) surface per job.
func ValidateJob(job Job) error {
	if strings.TrimSpace(job.SourceRef) == "" {
		return fmt.Errorf("job %s: source reference is required", job.JobID)
	}
	if !IsKnownQuality(job.Options.Quality) {
		return fmt.Errorf("job %s: unknown quality tier %q", job.JobID, job.Options.Quality)
	}
	if strings.TrimSpace(job.Options.DestDir) == "" {
		return fmt.Errorf("job %s: destination directory is required", job.JobID)
	}
	return nil
}
