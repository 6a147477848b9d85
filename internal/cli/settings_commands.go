package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"kiosoodl/internal/config"
)

func newSettingsCmd(ctx *rootContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the persisted default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.settingsPath()
			if err != nil {
				return err
			}
			settings, err := config.Load(path)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("render settings: %w", err)
			}
			fmt.Printf("# %s\n%s", path, data)
			return nil
		},
	}
	cmd.AddCommand(newSettingsSetCmd(ctx))
	return cmd
}

func newSettingsSetCmd(ctx *rootContext) *cobra.Command {
	var updated config.Settings

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist new default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.settingsPath()
			if err != nil {
				return err
			}
			settings, err := config.Load(path)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("dest") {
				settings.DestDir = updated.DestDir
			}
			if flags.Changed("jobs") {
				settings.MaxConcurrent = updated.MaxConcurrent
			}
			if flags.Changed("quality") {
				settings.Quality = updated.Quality
			}
			if flags.Changed("container") {
				settings.Container = updated.Container
			}
			if flags.Changed("numbering") {
				settings.Numbering = updated.Numbering
			}
			if flags.Changed("auto-subs") {
				settings.AutoSubs = updated.AutoSubs
			}
			if flags.Changed("subs") {
				settings.ManualSubs = updated.ManualSubs
			}
			if flags.Changed("sub-lang") {
				settings.SubLang = updated.SubLang
			}
			if flags.Changed("thumbnail") {
				settings.Thumbnail = updated.Thumbnail
			}
			if flags.Changed("metadata") {
				settings.Metadata = updated.Metadata
			}
			if flags.Changed("sponsorblock") {
				settings.SponsorStrip = updated.SponsorStrip
			}
			if flags.Changed("archive") {
				settings.ArchivePath = updated.ArchivePath
			}
			if flags.Changed("cookies") {
				settings.CookiesPath = updated.CookiesPath
			}

			if err := config.Save(path, settings); err != nil {
				return err
			}
			fmt.Printf("settings written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&updated.DestDir, "dest", "", "default destination directory")
	cmd.Flags().IntVar(&updated.MaxConcurrent, "jobs", config.DefaultMaxConcurrent, "default maximum concurrent downloads")
	cmd.Flags().StringVar(&updated.Quality, "quality", config.DefaultQuality, "default quality tier")
	cmd.Flags().StringVar(&updated.Container, "container", config.DefaultContainer, "default merge output container")
	cmd.Flags().BoolVar(&updated.Numbering, "numbering", false, "number output names by default")
	cmd.Flags().BoolVar(&updated.AutoSubs, "auto-subs", false, "fetch auto subtitles by default")
	cmd.Flags().BoolVar(&updated.ManualSubs, "subs", false, "fetch authored subtitles by default")
	cmd.Flags().StringVar(&updated.SubLang, "sub-lang", "", "default subtitle language")
	cmd.Flags().BoolVar(&updated.Thumbnail, "thumbnail", false, "fetch thumbnails by default")
	cmd.Flags().BoolVar(&updated.Metadata, "metadata", false, "fetch metadata by default")
	cmd.Flags().BoolVar(&updated.SponsorStrip, "sponsorblock", false, "strip sponsor segments by default")
	cmd.Flags().StringVar(&updated.ArchivePath, "archive", "", "default download-archive file")
	cmd.Flags().StringVar(&updated.CookiesPath, "cookies", "", "default cookie file")
	return cmd
}
