package render

import "strings"

// LogClass is the display category of one log line
type LogClass string

const (
	LogWorker    LogClass = "worker"
	LogScraper   LogClass = "scraper"
	LogExtractor LogClass = "extractor"
	LogError     LogClass = "error"
	LogSuccess   LogClass = "success"
	LogPlain     LogClass = "plain"
)

// logRules is evaluated top to bottom, first match wins. Component tags come
// before the error and success keywords: a line mentioning both an error
// marker and a component tag classifies as the component, not as error.
var logRules = []struct {
	class   LogClass
	markers []string
}{
	{LogWorker, []string{"worker"}},
	{LogScraper, []string{"scraper", "scraping"}},
	{LogExtractor, []string{"extractor", "extracting"}},
	{LogError, []string{"error", "failed"}},
	{LogSuccess, []string{"success", "completed"}},
}

// ClassifyLog assigns a display category to a log line by case-insensitive
// substring match in documented priority order.
func ClassifyLog(line string) LogClass {
	lower := strings.ToLower(line)
	for _, rule := range logRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.class
			}
		}
	}
	return LogPlain
}

// LogLine is a classified log line ready for display
type LogLine struct {
	Text  string
	Class LogClass
}

// ClassifyLogs classifies a batch of lines in order
func ClassifyLogs(lines []string) []LogLine {
	out := make([]LogLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, LogLine{Text: line, Class: ClassifyLog(line)})
	}
	return out
}
