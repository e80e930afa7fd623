package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tradecheck/internal/api"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Fetch the current status of a job once",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.RequestTimeout*5)
	defer cancel()

	client := api.NewClient(cfg.API)
	update, err := client.Status(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Job:      %s\n", update.JobID)
	fmt.Printf("Status:   %s\n", update.Status)
	fmt.Printf("Progress: %d%%\n", update.Progress)
	if update.Message != "" {
		fmt.Printf("Message:  %s\n", update.Message)
	}
	return nil
}
