package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kiosoodl/internal/ytdlp"
)

func newFormatsCmd(ctx *rootContext) *cobra.Command {
	return &cobra.Command{
		Use:   "formats <url>",
		Short: "List the available encodings for one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ytdlp.ListFormats(args[0])
			if err != nil {
				return err
			}
			fmt.Print(table)
			if !strings.HasSuffix(table, "\n") {
				fmt.Println()
			}
			return nil
		},
	}
}

func newUpdateCmd(ctx *rootContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update the yt-dlp executable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := ytdlp.Update()
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimSpace(report))
			return nil
		},
	}
}
