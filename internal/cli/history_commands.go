package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kiosoodl/internal/config"
	"kiosoodl/internal/history"
)

func newHistoryCmd(ctx *rootContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded download outcomes, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, err := openRecorder(ctx)
			if err != nil {
				return err
			}
			records := recorder.All()
			if len(records) == 0 {
				fmt.Println("history is empty")
				return nil
			}
			for _, rec := range records {
				mark := "ok  "
				if !rec.Success {
					mark = "fail"
				}
				fmt.Printf("%s  %s  %s\n", rec.Timestamp, mark, rec.Title)
				if rec.OutputPath != "" {
					fmt.Printf("%24s%s\n", "", rec.OutputPath)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, err := openRecorder(ctx)
			if err != nil {
				return err
			}
			if err := recorder.Clear(); err != nil {
				return err
			}
			fmt.Println("history cleared")
			return nil
		},
	})
	return cmd
}

func openRecorder(ctx *rootContext) (*history.Recorder, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	return history.Load(config.HistoryPath(dataDir), ctx.log), nil
}
