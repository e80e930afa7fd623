package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradecheck/internal/api"
	"tradecheck/internal/render"
	"tradecheck/internal/runner"
)

var resultsJSON string

// resultsCmd represents the results command
var resultsCmd = &cobra.Command{
	Use:   "results <job-id>",
	Short: "Fetch and render the report of a finished job",
	Args:  cobra.ExactArgs(1),
	RunE:  runResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.Flags().StringVar(&resultsJSON, "json", "", "write the raw report JSON to this path")
	resultsCmd.Flags().BoolVar(&plainOutput, "plain", false, "disable colored output")
}

func runResults(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.RequestTimeout*5)
	defer cancel()

	client := api.NewClient(cfg.API)
	run := runner.New(client, nil, reportStore(cfg), cfg.Poll.Interval, runner.Events{})

	result, err := run.LoadResult(ctx, args[0])
	if err != nil {
		return err
	}

	writer := render.NewWriter(os.Stdout, plainOutput || cfg.Output.NoColor)
	writer.WriteReport(render.BuildReport(result))

	if resultsJSON != "" {
		if err := writeResultJSON(result, resultsJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", resultsJSON)
		}
	}
	return nil
}
