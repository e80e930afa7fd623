package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradecheck/internal/api"
	"tradecheck/internal/history"
	"tradecheck/internal/llm"
	"tradecheck/internal/model"
	"tradecheck/internal/render"
	"tradecheck/internal/runner"
)

var (
	pollInterval time.Duration
	jobTimeout   time.Duration
	noLogs       bool
	outJSON      string
	summarize    bool
	plainOutput  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Submit a website for analysis and follow the job to completion",
	Long: `Analyze submits a company website to the risk analysis service and
follows the job until it finishes:
- Status is polled every interval and shown as a progress line
- Service logs stream alongside, categorized by pipeline stage
- The structured report is rendered once the job completes

Example:
  tradecheck analyze https://example.com
  tradecheck analyze https://example.com --json report.json --no-logs
  tradecheck analyze https://example.com --summarize`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&pollInterval, "interval", 2*time.Second, "status and log polling interval")
	analyzeCmd.Flags().DurationVar(&jobTimeout, "timeout", 10*time.Minute, "overall timeout waiting for the job")
	analyzeCmd.Flags().BoolVar(&noLogs, "no-logs", false, "do not stream job logs")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the raw report JSON to this path")
	analyzeCmd.Flags().BoolVar(&summarize, "summarize", false, "append an LLM narrative of the report (requires OPENAI_API_KEY)")
	analyzeCmd.Flags().BoolVar(&plainOutput, "plain", false, "disable colored output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Poll.Interval = pollInterval
	cfg.Poll.Timeout = jobTimeout

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Poll.Timeout)
	defer cancel()

	client := api.NewClient(cfg.API)
	hist := history.NewCache(client.History, cfg.History.Limit, cfg.History.TTL)
	writer := render.NewWriter(os.Stdout, plainOutput || cfg.Output.NoColor)

	events := runner.Events{
		OnStatus: func(update model.StatusUpdate) {
			fmt.Fprintf(os.Stderr, "  [%3d%%] %s\n", update.Progress, update.Message)
		},
		OnLogs: func(lines []string) {
			if noLogs {
				return
			}
			writer.WriteLogLines(render.ClassifyLogs(lines))
		},
		OnPollError: func(err error) {
			if verbose {
				fmt.Fprintf(os.Stderr, "  (transient poll error: %v)\n", err)
			}
		},
	}

	run := runner.New(client, hist, reportStore(cfg), cfg.Poll.Interval, events)

	if verbose {
		fmt.Fprintf(os.Stderr, "Submitting: %s\n", args[0])
		fmt.Fprintf(os.Stderr, "Service:    %s\n", cfg.API.BaseURL)
		fmt.Fprintln(os.Stderr)
	}

	jc, err := run.Submit(ctx, args[0])
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Job accepted: %s\n\n", jc.Job.ID)
	}

	select {
	case <-ctx.Done():
		jc.Cancel()
		return fmt.Errorf("timed out waiting for job %s", jc.Job.ID)
	case <-jc.Done():
	}

	result, err := jc.Outcome()
	if err != nil {
		return err
	}

	writer.WriteReport(render.BuildReport(result))

	if outJSON != "" {
		if err := writeResultJSON(result, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	if summarize {
		if err := printNarrative(ctx, cfg.LLM, result); err != nil {
			fmt.Fprintf(os.Stderr, "✗ Narrative generation failed: %v\n", err)
		}
	}
	return nil
}

func writeResultJSON(result *model.Result, path string) error {
	blob, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printNarrative(ctx context.Context, cfg model.LLMConfig, result *model.Result) error {
	summarizer, err := llm.NewSummarizer(cfg)
	if err != nil {
		return err
	}
	narrative, err := summarizer.Summarize(ctx, result)
	if err != nil {
		return err
	}
	fmt.Println("Narrative")
	fmt.Println(narrative)
	fmt.Println()
	return nil
}
