package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kiosoodl/internal/batch"
	"kiosoodl/internal/ytdlp"
)

func newExtractCmd(ctx *rootContext) *cobra.Command {
	var (
		destDir   string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Expand a playlist or channel into link-list files",
		Long: "Expands a collection URL into item links and writes them as\n" +
			"playlist_<start>-<end>.txt files, ready for `kiosoodl get`.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := strings.TrimSpace(destDir)
			if dest == "" {
				settings, err := ctx.loadSettings()
				if err != nil {
					return err
				}
				dest = settings.DestDir
			}
			if dest == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				dest = wd
			}

			ids, err := ytdlp.FlatPlaylistIDs(args[0])
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return fmt.Errorf("no items found in %s", args[0])
			}

			paths, err := batch.WriteBatches(dest, batch.LinksFromIDs(ids), batchSize)
			if err != nil {
				return err
			}
			ctx.log.Info("collection expanded",
				zap.Int("items", len(ids)),
				zap.Int("files", len(paths)))
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&destDir, "dest", "d", "", "directory for the generated link lists")
	cmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultSize, "links per generated file")
	return cmd
}
