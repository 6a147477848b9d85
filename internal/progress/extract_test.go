package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPercent(t *testing.T) {
	ev := Classify("[download]  42.7% of 120.00MiB at 5.32MiB/s ETA 00:13")
	assert.Equal(t, KindPercent, ev.Kind)
	assert.InDelta(t, 42.7, ev.Percent, 0.001)
}

func TestClassifyPercentClamped(t *testing.T) {
	ev := Classify("[download] 150% of something odd")
	assert.Equal(t, KindPercent, ev.Kind)
	assert.Equal(t, 100.0, ev.Percent)

	assert.Equal(t, 0.0, ClampPercent(-3))
	assert.Equal(t, 100.0, ClampPercent(240))
	assert.Equal(t, 55.5, ClampPercent(55.5))
}

func TestClassifyDestinationMarkers(t *testing.T) {
	merged := Classify(`[Merger] Merging formats into "out/My Video.mp4"`)
	assert.Equal(t, KindOutputPath, merged.Kind)
	assert.Equal(t, "out/My Video.mp4", merged.Path)
	assert.Equal(t, PriorityMerged, merged.Priority)

	audio := Classify("[ExtractAudio] Destination: out/track.m4a")
	assert.Equal(t, KindOutputPath, audio.Kind)
	assert.Equal(t, "out/track.m4a", audio.Path)
	assert.Equal(t, PriorityAudio, audio.Priority)

	dest := Classify("[download] Destination: out/My Video.f137.mp4")
	assert.Equal(t, KindOutputPath, dest.Kind)
	assert.Equal(t, "out/My Video.f137.mp4", dest.Path)
	assert.Equal(t, PriorityDestination, dest.Priority)
}

func TestClassifyMediaID(t *testing.T) {
	ev := Classify("[youtube] dQw4w9WgXcQ: Downloading webpage")
	assert.Equal(t, KindMediaID, ev.Kind)
	assert.Equal(t, "dQw4w9WgXcQ", ev.MediaID)
}

func TestClassifyUnknownLineNeverFails(t *testing.T) {
	for _, line := range []string{
		"",
		"WARNING: unable to obtain file audio codec with ffprobe",
		"[info] Writing video subtitles",
		"random noise with no markers",
	} {
		ev := Classify(line)
		assert.Equal(t, KindLog, ev.Kind)
		assert.Equal(t, line, ev.Line)
	}
}

func TestPathCapturePrefersHigherPriority(t *testing.T) {
	var c PathCapture
	c.Observe(Classify("[download] Destination: out/a.f137.mp4"))
	assert.Equal(t, "out/a.f137.mp4", c.Path())

	c.Observe(Classify(`[Merger] Merging formats into "out/a.mp4"`))
	assert.Equal(t, "out/a.mp4", c.Path())

	// A later lower-priority marker never overwrites the merged path.
	c.Observe(Classify("[download] Destination: out/a.f140.m4a"))
	assert.Equal(t, "out/a.mp4", c.Path())
}

func TestPathCaptureIgnoresNonPathEvents(t *testing.T) {
	var c PathCapture
	c.Observe(Classify("[download]  10.0% of 1.00MiB"))
	assert.Equal(t, "", c.Path())
}
