package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tradecheck/internal/api"
	"tradecheck/internal/history"
	"tradecheck/internal/model"
	"tradecheck/internal/render"
	"tradecheck/internal/runner"
	"tradecheck/internal/tui"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [url]",
	Short: "Interactive dashboard for submitting and following analysis jobs",
	Long: `Open a terminal dashboard that submits supplier URLs, streams job
status and logs live, and shows finished reports alongside the analysis
history. A URL given on the command line is submitted immediately.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	interval := cfg.Poll.Interval
	if watchInterval > 0 {
		interval = watchInterval
	}

	client := api.NewClient(cfg.API)
	hist := history.NewCache(client.History, cfg.History.Limit, cfg.History.TTL)

	// the program pointer is assigned before Run; events only fire after a
	// submission, which the model issues from inside the running program
	var program *tea.Program
	events := runner.Events{
		OnStatus: func(update model.StatusUpdate) {
			program.Send(tui.StatusMsg{Update: update})
		},
		OnLogs: func(lines []string) {
			program.Send(tui.LogsMsg{Lines: render.ClassifyLogs(lines)})
		},
		OnResult: func(res *model.Result) {
			program.Send(tui.ResultMsg{Result: res})
		},
		OnFailure: func(message string) {
			program.Send(tui.FailedMsg{Message: message})
		},
		OnLoadError: func(err error) {
			program.Send(tui.LoadErrMsg{Err: err})
		},
		OnPollError: func(err error) {
			program.Send(tui.PollErrMsg{Err: err})
		},
	}

	initialURL := ""
	if len(args) == 1 {
		initialURL = args[0]
	}

	run := runner.New(client, hist, reportStore(cfg), interval, events)
	program = tea.NewProgram(tui.NewModel(run, hist, initialURL), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}
	return nil
}
