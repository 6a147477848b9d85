// Package progress classifies single lines of yt-dlp output into
// structured events. It is a pure line classifier with no process
// lifecycle attached, so parsing rules are testable without spawning
// anything.
package progress

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rePercent      = regexp.MustCompile(`([0-9]{1,3}(?:\.[0-9]+)?)%`)
	reMergedPath   = regexp.MustCompile(`\[Merger\] Merging formats into "(.+)"`)
	reAudioPath    = regexp.MustCompile(`\[ExtractAudio\] Destination: (.+)`)
	reDestPath     = regexp.MustCompile(`\[download\] Destination: (.+)`)
	reExtractorID  = regexp.MustCompile(`^\[youtube\] ([0-9A-Za-z_-]{6,}): `)
	reDownloadLine = regexp.MustCompile(`^\[download\]`)
)

type Kind int

const (
	KindLog Kind = iota
	KindPercent
	KindOutputPath
	KindMediaID
)

// Output path priorities. A lower-priority marker never overwrites a
// higher-priority one already captured for a job.
const (
	PriorityNone        = 0
	PriorityDestination = 1
	PriorityAudio       = 2
	PriorityMerged      = 3
)

type Event struct {
	Kind     Kind
	Percent  float64
	Path     string
	Priority int
	MediaID  string
	Line     string
}

// Classify inspects one output line. Unrecognized lines come back as
// KindLog with the line verbatim; classification never fails.
func Classify(line string) Event {
	if m := reMergedPath.FindStringSubmatch(line); len(m) > 1 {
		return Event{Kind: KindOutputPath, Path: strings.TrimSpace(m[1]), Priority: PriorityMerged, Line: line}
	}
	if m := reAudioPath.FindStringSubmatch(line); len(m) > 1 {
		return Event{Kind: KindOutputPath, Path: strings.TrimSpace(m[1]), Priority: PriorityAudio, Line: line}
	}
	if m := reDestPath.FindStringSubmatch(line); len(m) > 1 {
		return Event{Kind: KindOutputPath, Path: strings.TrimSpace(m[1]), Priority: PriorityDestination, Line: line}
	}
	if m := reExtractorID.FindStringSubmatch(line); len(m) > 1 {
		return Event{Kind: KindMediaID, MediaID: m[1], Line: line}
	}
	if reDownloadLine.MatchString(line) {
		if m := rePercent.FindStringSubmatch(line); len(m) > 1 {
			if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
				return Event{Kind: KindPercent, Percent: ClampPercent(pct), Line: line}
			}
		}
	}
	return Event{Kind: KindLog, Line: line}
}

func ClampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// PathCapture retains the best resolved output path seen for one job.
type PathCapture struct {
	path     string
	priority int
}

func (c *PathCapture) Observe(ev Event) {
	if ev.Kind != KindOutputPath || ev.Path == "" {
		return
	}
	if ev.Priority > c.priority {
		c.path = ev.Path
		c.priority = ev.Priority
	}
}

func (c *PathCapture) Path() string {
	return c.path
}
