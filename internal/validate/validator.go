// Package validate checks supplier URLs before any network activity.
// A rejected URL never reaches the analysis service.
package validate

import (
	"net/url"
	"strings"

	"tradecheck/internal/model"
)

// Normalize trims the input, defaults a missing scheme to https, and
// validates the result. The returned URL is what should be submitted.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &model.ValidationError{Reason: "url must not be empty"}
	}
	if strings.ContainsAny(trimmed, " \t") {
		return "", &model.ValidationError{Reason: "url must not contain whitespace"}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	if err := URL(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// URL validates a fully formed supplier URL
func URL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return &model.ValidationError{Reason: "url is not parseable: " + err.Error()}
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return &model.ValidationError{Reason: "url scheme must be http or https"}
	}
	if parsed.Host == "" {
		return &model.ValidationError{Reason: "url must include a host"}
	}
	if !strings.Contains(parsed.Host, ".") && !strings.HasPrefix(parsed.Host, "localhost") {
		return &model.ValidationError{Reason: "url host looks incomplete: " + parsed.Host}
	}
	return nil
}
