package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tradecheck/internal/model"
	"tradecheck/internal/report"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tradecheck",
	Short: "Tradecheck - export-control risk screening client",
	Long: `Tradecheck is a command-line client for an export-control risk
analysis service.

Given a company website, the service screens it for sanctions, military
and dual-use indicators, classifies NAICS codes, and extracts address and
company registration details. Tradecheck submits the job, follows its
progress and logs while the service works, and renders the finished report.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tradecheck v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tradecheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	defaults := model.DefaultConfig()
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.request_timeout", defaults.API.RequestTimeout)
	viper.SetDefault("api.user_agent", defaults.API.UserAgent)
	viper.SetDefault("api.requests_per_second", defaults.API.RequestsPerSecond)
	viper.SetDefault("api.burst", defaults.API.Burst)
	viper.SetDefault("api.http_proxy", defaults.API.HTTPProxy)
	viper.SetDefault("api.https_proxy", defaults.API.HTTPSProxy)
	viper.SetDefault("poll.interval", defaults.Poll.Interval)
	viper.SetDefault("poll.timeout", defaults.Poll.Timeout)
	viper.SetDefault("history.limit", defaults.History.Limit)
	viper.SetDefault("history.ttl", defaults.History.TTL)
	viper.SetDefault("llm.model", defaults.LLM.Model)
	viper.SetDefault("llm.max_tokens", defaults.LLM.MaxTokens)
	viper.SetDefault("llm.timeout", defaults.LLM.Timeout)
	viper.SetDefault("output.no_color", defaults.Output.NoColor)
	viper.SetDefault("output.report_dir", defaults.Output.ReportDir)

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.tradecheck")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match TRADECHECK_*
	viper.SetEnvPrefix("TRADECHECK")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the effective configuration from defaults, config
// file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	return cfg, nil
}

// reportStore opens the local report archive. An unresolvable location
// degrades to a memory-only store.
func reportStore(cfg *model.Config) *report.Store {
	dir := cfg.Output.ReportDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return report.NewStore("")
		}
		dir = filepath.Join(home, ".tradecheck", "reports")
	}
	return report.NewStore(dir)
}
