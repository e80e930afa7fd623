package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradecheck/internal/api"
	"tradecheck/internal/render"
	"tradecheck/internal/worker"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchInterval    time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze a file of URLs concurrently",
	Long: `Batch reads supplier URLs from a file, one per line, and runs each
through the analysis service concurrently. Blank lines and # comments are
skipped. Finished reports land in the local archive; view one with
'tradecheck results <job-id>'.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "number of jobs to run at once")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall timeout for the whole batch")
	batchCmd.Flags().DurationVar(&batchInterval, "interval", 2*time.Second, "status polling interval per job")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	client := api.NewClient(cfg.API)
	processor := worker.NewBatchProcessor(client, reportStore(cfg), batchInterval, batchConcurrency)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Batch analysis: %s (concurrency %d)\n\n", args[0], batchConcurrency)
	}

	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("✗ %-50s %v\n", res.URL, res.Err)
			continue
		}
		view := render.BuildReport(res.Report)
		fmt.Printf("✓ %-50s %s  (job %s)\n", res.URL, view.Verdict, res.JobID)
	}

	fmt.Printf("\n%d analyzed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(results))
	}
	return nil
}
