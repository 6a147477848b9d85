package model

import (
	"path/filepath"
	"strings"
	"time"
)

// OutcomeRecord is the durable summary written once a job reaches a
// terminal state. Records are append-only; history is most-recent-first.
type OutcomeRecord struct {
	ItemID     string `json:"item_id"`
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	Title      string `json:"title"`
	Detail     string `json:"detail,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// NewOutcome derives the display title from the output file basename,
// falling back to the item identifier when no path was ever observed.
func NewOutcome(itemID string, success bool, outputPath, detail string) OutcomeRecord {
	title := itemID
	if strings.TrimSpace(outputPath) != "" {
		base := filepath.Base(outputPath)
		if trimmed := strings.TrimSuffix(base, filepath.Ext(base)); trimmed != "" {
			title = trimmed
		}
	}
	return OutcomeRecord{
		ItemID:     itemID,
		Success:    success,
		OutputPath: outputPath,
		Title:      title,
		Detail:     detail,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}
