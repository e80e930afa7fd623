package model

import "time"

// Config holds the complete client configuration
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Poll    PollConfig    `yaml:"poll" mapstructure:"poll"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// APIConfig configures the HTTP client for the analysis service
type APIConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	RequestTimeout    time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// PollConfig configures the status and log polling loops
type PollConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// HistoryConfig configures the job history view
type HistoryConfig struct {
	Limit int           `yaml:"limit" mapstructure:"limit"`
	TTL   time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LLMConfig configures the optional report narrative
type LLMConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey    string `yaml:"-" mapstructure:"-"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig controls rendering and local archiving behavior
type OutputConfig struct {
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	ReportDir string `yaml:"report_dir,omitempty" mapstructure:"report_dir"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8000/api",
			RequestTimeout:    2 * time.Second,
			UserAgent:         "tradecheck/0.2",
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Poll: PollConfig{
			Interval: 2 * time.Second,
			Timeout:  10 * time.Minute,
		},
		History: HistoryConfig{
			Limit: 20,
			TTL:   30 * time.Second,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 600,
			Timeout:   30,
		},
	}
}
