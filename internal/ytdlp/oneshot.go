package ytdlp

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// One-shot informational invocations. These bypass the scheduler
// entirely: no queueing, no progress extraction, no history record.

// FlatPlaylistIDs expands a playlist or channel URL into its item IDs
// without fetching any media.
func FlatPlaylistIDs(sourceURL string) ([]string, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, fmt.Errorf("source URL is required")
	}
	out, err := runCaptured("--flat-playlist", "--get-id", sourceURL)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ListFormats returns yt-dlp's available-format table for one item.
func ListFormats(sourceURL string) (string, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return "", fmt.Errorf("source URL is required")
	}
	return runCaptured("-F", sourceURL)
}

// Update runs yt-dlp's self-updater and returns its report.
func Update() (string, error) {
	return runCaptured("-U")
}

func runCaptured(args ...string) (string, error) {
	cmd := exec.Command(Executable(), args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
