package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kiosoodl/internal/config"
	"kiosoodl/internal/store"
	"kiosoodl/internal/ytdlp"
)

type doctorCheck struct {
	name    string
	ok      bool
	message string
}

func newDoctorCmd(ctx *rootContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that yt-dlp, ffmpeg and the data directory are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runDoctorChecks(ctx)

			ok := true
			for _, c := range checks {
				mark := "ok  "
				if !c.ok {
					mark = "fail"
					ok = false
				}
				fmt.Printf("%s  %-18s %s\n", mark, c.name, c.message)
			}
			if !ok {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}

func runDoctorChecks(ctx *rootContext) []doctorCheck {
	checks := make([]doctorCheck, 0, 4)

	dep := ytdlp.DependencyStatus()
	checks = append(checks, dependencyCheck("yt-dlp", dep.YTDLPFound, dep.YTDLPPath))
	checks = append(checks, dependencyCheck("ffmpeg", dep.FFmpegFound, dep.FFmpegPath))

	dataDir, err := config.DataDir()
	if err != nil {
		checks = append(checks, doctorCheck{name: "data directory", message: err.Error()})
	} else if err := store.WritableDir(dataDir); err != nil {
		checks = append(checks, doctorCheck{name: "data directory", message: err.Error()})
	} else {
		checks = append(checks, doctorCheck{name: "data directory", ok: true, message: dataDir + " is writable"})
	}

	settingsPath, err := ctx.settingsPath()
	if err != nil {
		checks = append(checks, doctorCheck{name: "settings", message: err.Error()})
	} else if _, err := config.Load(settingsPath); err != nil {
		checks = append(checks, doctorCheck{name: "settings", message: err.Error()})
	} else {
		checks = append(checks, doctorCheck{name: "settings", ok: true, message: settingsPath + " parses"})
	}

	return checks
}

func dependencyCheck(name string, found bool, path string) doctorCheck {
	if found {
		return doctorCheck{name: name, ok: true, message: "found at " + path}
	}
	return doctorCheck{name: name, message: "not found on PATH"}
}
