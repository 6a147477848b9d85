package ytdlp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosoodl/internal/model"
)

func baseJob() model.Job {
	return model.Job{
		JobID:         "j1",
		SourceRef:     "https://example.com/watch?v=abc",
		SequenceIndex: 1,
		BatchSize:     1,
		Options: model.DownloadOptions{
			Quality: model.QualityBest,
			DestDir: "/downloads",
		},
	}
}

func argValue(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag {
			require.Less(t, i+1, len(args), "flag %s has no value", flag)
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not present in %v", flag, args)
	return ""
}

func TestSelectFormatPerTier(t *testing.T) {
	cases := map[string]struct {
		quality string
		want    string
	}{
		"best prefers avc1+m4a with combined fallback": {
			quality: model.QualityBest,
			want:    "bestvideo[vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo+bestaudio/best",
		},
		"1080p is height capped": {
			quality: model.Quality1080p,
			want:    "bestvideo[height<=1080][vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo[height<=1080]+bestaudio/best[height<=1080]/best",
		},
		"720p is height capped": {
			quality: model.Quality720p,
			want:    "bestvideo[height<=720][vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo[height<=720]+bestaudio/best[height<=720]/best",
		},
		"480p is height capped": {
			quality: model.Quality480p,
			want:    "bestvideo[height<=480][vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo[height<=480]+bestaudio/best[height<=480]/best",
		},
		"audio only": {
			quality: model.QualityAudio,
			want:    "bestaudio[ext=m4a]/bestaudio",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, selectFormat(tc.quality))
		})
	}
}

func TestBuildDownloadArgsBasics(t *testing.T) {
	args, warnings := BuildDownloadArgs(baseJob())

	assert.Empty(t, warnings)
	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, "--newline")
	assert.Equal(t, "mp4", argValue(t, args, "--merge-output-format"))
	assert.Equal(t, "3", argValue(t, args, "--sleep-interval"))
	assert.Equal(t, "5", argValue(t, args, "--concurrent-fragments"))
	assert.Equal(t, filepath.Join("/downloads", "%(title)s.%(ext)s"), argValue(t, args, "-o"))
	assert.Equal(t, "https://example.com/watch?v=abc", args[len(args)-1], "source reference is last")
}

func TestAudioJobsSkipMergeContainer(t *testing.T) {
	job := baseJob()
	job.Options.Quality = model.QualityAudio
	args, _ := BuildDownloadArgs(job)
	assert.NotContains(t, args, "--merge-output-format")
}

func TestNumberingTemplatePadsToBatchWidth(t *testing.T) {
	job := baseJob()
	job.Options.Numbering = true
	job.SequenceIndex = 7
	job.BatchSize = 150
	args, _ := BuildDownloadArgs(job)
	assert.Equal(t, filepath.Join("/downloads", "007 - %(title)s.%(ext)s"), argValue(t, args, "-o"))

	job.BatchSize = 9
	job.SequenceIndex = 3
	args, _ = BuildDownloadArgs(job)
	assert.Equal(t, filepath.Join("/downloads", "03 - %(title)s.%(ext)s"), argValue(t, args, "-o"), "minimum width is two digits")
}

func TestOptionFlags(t *testing.T) {
	job := baseJob()
	job.Options.AutoSubs = true
	job.Options.ManualSubs = true
	job.Options.SubLang = "en"
	job.Options.Thumbnail = true
	job.Options.Metadata = true
	job.Options.SponsorStrip = true
	job.Options.ArchivePath = "/data/archive.txt"

	args, warnings := BuildDownloadArgs(job)
	assert.Empty(t, warnings)
	assert.Contains(t, args, "--write-auto-subs")
	assert.Contains(t, args, "--write-subs")
	assert.Equal(t, "srt", argValue(t, args, "--convert-subs"))
	assert.Equal(t, "en", argValue(t, args, "--sub-langs"))
	assert.Contains(t, args, "--write-thumbnail")
	assert.Equal(t, "jpg", argValue(t, args, "--convert-thumbnails"))
	assert.Contains(t, args, "--write-info-json")
	assert.Equal(t, "sponsor", argValue(t, args, "--sponsorblock-remove"))
	assert.Equal(t, "/data/archive.txt", argValue(t, args, "--download-archive"))
}

func TestDefaultSubLangOmitsSelector(t *testing.T) {
	job := baseJob()
	job.Options.AutoSubs = true
	job.Options.SubLang = model.SubLangDefault
	args, _ := BuildDownloadArgs(job)
	assert.NotContains(t, args, "--sub-langs")
}

func TestMissingCookiesFileIsDroppedWithWarning(t *testing.T) {
	job := baseJob()
	job.Options.CookiesPath = filepath.Join(t.TempDir(), "absent.txt")

	args, warnings := BuildDownloadArgs(job)
	assert.NotContains(t, args, "--cookies")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "cookies file dropped")
}

func TestExistingCookiesFileIsPassedThrough(t *testing.T) {
	cookies := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(cookies, []byte("# Netscape HTTP Cookie File\n"), 0o644))

	job := baseJob()
	job.Options.CookiesPath = cookies
	args, warnings := BuildDownloadArgs(job)
	assert.Empty(t, warnings)
	assert.Equal(t, cookies, argValue(t, args, "--cookies"))
}

func TestSplitByNewlineOrCR(t *testing.T) {
	// yt-dlp rewrites its progress line with bare carriage returns.
	input := "line one\r[download]  50.0%\r[download] 100.0%\nfinal\n"
	var lines []string
	data := []byte(input)
	for len(data) > 0 {
		adv, token, err := splitByNewlineOrCR(data, true)
		require.NoError(t, err)
		if adv == 0 {
			break
		}
		if token != nil {
			lines = append(lines, string(token))
		}
		data = data[adv:]
	}
	assert.Equal(t, []string{"line one", "[download]  50.0%", "[download] 100.0%", "final"}, lines)
}

func TestExecutableFallsBackToName(t *testing.T) {
	// With no local copy and an empty PATH the bare name comes back, so
	// a missing binary surfaces at launch time, not before.
	t.Setenv("PATH", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	if _, statErr := os.Stat(filepath.Join(wd, "yt-dlp")); statErr == nil {
		t.Skip("local yt-dlp present")
	}
	exe := Executable()
	assert.True(t, strings.HasPrefix(exe, "yt-dlp"))
}
