package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradecheck/internal/api"
	"tradecheck/internal/history"
	"tradecheck/internal/render"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analysis jobs",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of jobs to list")
	historyCmd.Flags().BoolVar(&plainOutput, "plain", false, "disable colored output")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.RequestTimeout*5)
	defer cancel()

	client := api.NewClient(cfg.API)
	hist := history.NewCache(client.History, historyLimit, cfg.History.TTL)

	entries, err := hist.Refresh(ctx)
	if err != nil {
		// the view keeps whatever was last fetched; in a one-shot command
		// that is usually nothing, so the failure is still worth a note
		fmt.Fprintf(os.Stderr, "✗ History refresh failed: %v\n", err)
	}

	writer := render.NewWriter(os.Stdout, plainOutput || cfg.Output.NoColor)
	writer.WriteHistory(render.BuildHistory(entries))
	return nil
}
