// Package llm generates an optional plain-language narrative of a finished
// report. The narrative is presentation only and never alters the report.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"tradecheck/internal/model"
)

// Summarizer turns a report into a short narrative via the OpenAI chat API
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewSummarizer creates a summarizer from config. The API key is required.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 600
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     chatModel,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

// Summarize generates the narrative for a finished report
func (s *Summarizer) Summarize(ctx context.Context, res *model.Result) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize export-control screening reports. Restate only what the report says; never speculate beyond it.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(res),
			},
		},
		MaxTokens:   s.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt constructs the summarization prompt from the report contents
func BuildPrompt(res *model.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summarize this export-control screening report in 3-4 sentences for a compliance officer.\n\n")
	fmt.Fprintf(&b, "Website: %s\n", res.URL)
	fmt.Fprintf(&b, "Business nature: %s\n", res.Summary.Nature)
	fmt.Fprintf(&b, "Products/services: %s\n", res.Summary.ProductsServices)
	fmt.Fprintf(&b, "Countries operating: %s\n", joinOrNone(res.Summary.CountriesOperating))
	fmt.Fprintf(&b, "Countries dealing with: %s\n", joinOrNone(res.Summary.CountriesDealingWith))
	fmt.Fprintf(&b, "Primary NAICS code: %s\n\n", res.NAICS.PrimaryCode)

	writeCheck(&b, "Sanctions", res.Flags.Sanctions)
	writeCheck(&b, "Military", res.Flags.Military)
	writeCheck(&b, "Dual-use", res.Flags.DualUse)

	b.WriteString("\nFocus on which checks raised flags and why.")
	return b.String()
}

func writeCheck(b *strings.Builder, name string, check model.FlagCheck) {
	fmt.Fprintf(b, "%s check: risk %s (%d/100), flags raised: %t", name, check.RiskLevel, check.RiskScore, check.FlagsRaised)
	if check.RiskExplanation != "" {
		fmt.Fprintf(b, "; explanation: %s", check.RiskExplanation)
	}
	b.WriteString("\n")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none listed)"
	}
	return strings.Join(items, ", ")
}
