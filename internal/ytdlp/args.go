package ytdlp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kiosoodl/internal/model"
)

// Fixed inter-item pacing to reduce rate limiting.
const sleepIntervalSeconds = 3

const concurrentFragments = 5

// BuildDownloadArgs constructs the yt-dlp argument vector for one job.
// It is pure aside from the cookie-file existence check; non-fatal
// adjustments (a dropped cookie file) come back as warnings.
func BuildDownloadArgs(job model.Job) (args []string, warnings []string) {
	opts := job.Options

	args = []string{
		"--no-playlist",
		"--newline",
		"-f", selectFormat(opts.Quality),
		"--concurrent-fragments", fmt.Sprintf("%d", concurrentFragments),
		"--sleep-interval", fmt.Sprintf("%d", sleepIntervalSeconds),
		"-o", filepath.Join(opts.DestDir, outputTemplate(job)),
	}
	if opts.Quality != model.QualityAudio {
		args = append(args, "--merge-output-format", containerOrDefault(opts.Container))
	}
	if opts.AutoSubs || opts.ManualSubs {
		if opts.AutoSubs {
			args = append(args, "--write-auto-subs")
		}
		if opts.ManualSubs {
			args = append(args, "--write-subs")
		}
		args = append(args, "--convert-subs", "srt")
		if lang := strings.TrimSpace(opts.SubLang); lang != "" && lang != model.SubLangDefault {
			args = append(args, "--sub-langs", lang)
		}
	}
	if opts.Thumbnail {
		args = append(args, "--write-thumbnail", "--convert-thumbnails", "jpg")
	}
	if opts.Metadata {
		args = append(args, "--write-info-json")
	}
	if opts.SponsorStrip {
		args = append(args, "--sponsorblock-remove", "sponsor")
	}
	if strings.TrimSpace(opts.ArchivePath) != "" {
		args = append(args, "--download-archive", opts.ArchivePath)
	}
	if strings.TrimSpace(opts.CookiesPath) != "" {
		cookiesPath, err := resolveCookiesPath(opts.CookiesPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cookies file dropped: %v", err))
		} else {
			args = append(args, "--cookies", cookiesPath)
		}
	}
	args = append(args, job.SourceRef)
	return args, warnings
}

// selectFormat maps a quality tier to a yt-dlp format expression,
// preferring avc1 video paired with m4a audio and falling back to the
// best available combined stream.
func selectFormat(quality string) string {
	switch quality {
	case model.Quality1080p:
		return "bestvideo[height<=1080][vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo[height<=1080]+bestaudio/best[height<=1080]/best"
	case model.Quality720p:
		return "bestvideo[height<=720][vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo[height<=720]+bestaudio/best[height<=720]/best"
	case model.Quality480p:
		return "bestvideo[height<=480][vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo[height<=480]+bestaudio/best[height<=480]/best"
	case model.QualityAudio:
		return "bestaudio[ext=m4a]/bestaudio"
	default:
		return "bestvideo[vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"
	}
}

// outputTemplate prefixes the title with the job's batch position when
// numbering is requested, padded to the digit width of the batch size.
func outputTemplate(job model.Job) string {
	if !job.Options.Numbering || job.SequenceIndex <= 0 {
		return "%(title)s.%(ext)s"
	}
	width := len(fmt.Sprintf("%d", job.BatchSize))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%0*d - %%(title)s.%%(ext)s", width, job.SequenceIndex)
}

func containerOrDefault(container string) string {
	c := strings.ToLower(strings.TrimSpace(container))
	if c == "" {
		return "mp4"
	}
	return c
}

func resolveCookiesPath(path string) (string, error) {
	p := strings.TrimSpace(path)
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve cookies path %s: %w", p, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("cookies file %s: %w", abs, err)
	}
	return abs, nil
}
