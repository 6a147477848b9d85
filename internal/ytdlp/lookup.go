package ytdlp

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Executable resolves the yt-dlp binary: a copy sitting next to the
// working directory wins over whatever is on PATH. Absence is not an
// error here; a missing binary surfaces as a per-job launch failure.
func Executable() string {
	name := "yt-dlp"
	if runtime.GOOS == "windows" {
		name = "yt-dlp.exe"
	}
	if wd, err := os.Getwd(); err == nil {
		local := filepath.Join(wd, name)
		if info, statErr := os.Stat(local); statErr == nil && !info.IsDir() {
			return local
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}

type Dependencies struct {
	YTDLPFound  bool
	YTDLPPath   string
	FFmpegFound bool
	FFmpegPath  string
}

// DependencyStatus reports whether yt-dlp and ffmpeg are reachable.
// ffmpeg is only needed for merged video+audio formats, so its absence
// is reported but not fatal.
func DependencyStatus() Dependencies {
	var dep Dependencies

	exe := Executable()
	if filepath.IsAbs(exe) {
		dep.YTDLPFound = true
		dep.YTDLPPath = exe
	} else if path, err := exec.LookPath(exe); err == nil {
		dep.YTDLPFound = true
		dep.YTDLPPath = path
	}

	ffmpeg := "ffmpeg"
	if runtime.GOOS == "windows" {
		ffmpeg = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(ffmpeg); err == nil {
		dep.FFmpegFound = true
		dep.FFmpegPath = path
	}
	return dep
}
