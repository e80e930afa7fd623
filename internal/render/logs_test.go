package render

import "testing"

func TestClassifyLog_Priority(t *testing.T) {
	tests := []struct {
		line string
		want LogClass
	}{
		{"[worker] starting analysis", LogWorker},
		{"[scraper] fetching homepage", LogScraper},
		{"Scraping product pages", LogScraper},
		{"[extractor] parsing address", LogExtractor},
		{"Extracting business summary", LogExtractor},
		{"ERROR: upstream timeout", LogError},
		{"request failed with 503", LogError},
		{"analysis completed successfully", LogSuccess},
		{"Success: report stored", LogSuccess},
		{"plain progress note", LogPlain},
		// component tags outrank the error and success keywords
		{"[worker] error while contacting scraper", LogWorker},
		{"[scraper] failed to fetch robots.txt", LogScraper},
		{"[extractor] completed address pass", LogExtractor},
		// error outranks success
		{"error: completed with warnings", LogError},
	}

	for _, tt := range tests {
		if got := ClassifyLog(tt.line); got != tt.want {
			t.Errorf("ClassifyLog(%q) = %s, want %s", tt.line, got, tt.want)
		}
	}
}

func TestClassifyLog_CaseInsensitive(t *testing.T) {
	if got := ClassifyLog("WORKER up"); got != LogWorker {
		t.Errorf("Expected worker class, got %s", got)
	}
	if got := ClassifyLog("FAILED hard"); got != LogError {
		t.Errorf("Expected error class, got %s", got)
	}
}

func TestClassifyLogs_PreservesOrder(t *testing.T) {
	lines := []string{"[worker] a", "plain b", "error c"}
	classified := ClassifyLogs(lines)
	if len(classified) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(classified))
	}
	for i, line := range classified {
		if line.Text != lines[i] {
			t.Errorf("Line %d reordered: %q", i, line.Text)
		}
	}
	if classified[0].Class != LogWorker || classified[1].Class != LogPlain || classified[2].Class != LogError {
		t.Errorf("Unexpected classes: %+v", classified)
	}
}
