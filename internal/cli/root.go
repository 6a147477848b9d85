// Package cli builds the kiosoodl command tree.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kiosoodl/internal/config"
	"kiosoodl/internal/logging"
)

type rootContext struct {
	verbose    bool
	configPath string

	log *zap.Logger
}

func (c *rootContext) settingsPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return config.SettingsPath(dataDir), nil
}

func (c *rootContext) loadSettings() (config.Settings, error) {
	path, err := c.settingsPath()
	if err != nil {
		return config.Settings{}, err
	}
	return config.Load(path)
}

func NewRootCmd() *cobra.Command {
	ctx := &rootContext{}

	root := &cobra.Command{
		Use:           "kiosoodl",
		Short:         "Queue-based yt-dlp download orchestrator",
		Long:          "kiosoodl queues media downloads, runs them with bounded parallelism,\nand keeps a durable history of outcomes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx.log = logging.New(ctx.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = ctx.log.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&ctx.configPath, "config", "", "settings file path (default: user config dir)")

	root.AddCommand(
		newGetCmd(ctx),
		newExtractCmd(ctx),
		newDoctorCmd(ctx),
		newFormatsCmd(ctx),
		newHistoryCmd(ctx),
		newSettingsCmd(ctx),
		newUpdateCmd(ctx),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
