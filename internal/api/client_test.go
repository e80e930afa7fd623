package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tradecheck/internal/model"
)

func testClient(baseURL string) *Client {
	return NewClient(model.APIConfig{
		BaseURL:           baseURL,
		RequestTimeout:    5 * time.Second,
		UserAgent:         "test-agent",
		RequestsPerSecond: 1000,
		Burst:             1000,
	})
}

func TestAnalyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Expected X-Request-ID header")
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"job_id":"abc-123","status":"queued","message":"Job queued"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	jobID, err := client.Analyze(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if jobID != "abc-123" {
		t.Errorf("Unexpected job id: %s", jobID)
	}
}

func TestAnalyze_ServerErrorWrapsSubmissionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"detail":"queue is full"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Analyze(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("Expected error for 500, got nil")
	}
	var subErr *model.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("Expected SubmissionError, got %T", err)
	}
	var transErr *model.TransportError
	if !errors.As(err, &transErr) {
		t.Fatalf("Expected wrapped TransportError, got %v", err)
	}
	if transErr.Status != http.StatusInternalServerError {
		t.Errorf("Unexpected status: %d", transErr.Status)
	}
	if transErr.Detail != "queue is full" {
		t.Errorf("Unexpected detail: %q", transErr.Detail)
	}
}

func TestAnalyze_MissingJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"status":"queued"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Analyze(context.Background(), "https://example.com")
	var subErr *model.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("Expected SubmissionError for missing job id, got %v", err)
	}
}

func TestStatus_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status/abc-123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"job_id":"abc-123","status":"processing","progress":40,"message":"Scraping website..."}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	update, err := client.Status(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if update.Status != model.StatusProcessing {
		t.Errorf("Unexpected status: %s", update.Status)
	}
	if update.Progress != 40 {
		t.Errorf("Unexpected progress: %d", update.Progress)
	}
	if update.Message != "Scraping website..." {
		t.Errorf("Unexpected message: %q", update.Message)
	}
}

func TestStatus_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><head><title>Bad Gateway</title></head></html>`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Status(context.Background(), "abc-123")
	var transErr *model.TransportError
	if !errors.As(err, &transErr) {
		t.Fatalf("Expected TransportError for HTML body, got %v", err)
	}
}

func TestStatus_HTMLErrorPageTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprint(w, `<html><head><title>502 Bad Gateway</title></head><body>nginx</body></html>`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Status(context.Background(), "abc-123")
	var transErr *model.TransportError
	if !errors.As(err, &transErr) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if transErr.Detail != "502 Bad Gateway" {
		t.Errorf("Expected page title as detail, got %q", transErr.Detail)
	}
}

func TestResults_ServiceReportedErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"job_id":"abc-123","status":"failed","error":"scraper blocked by robots policy"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Results(context.Background(), "abc-123")
	var repErr *model.ReportedError
	if !errors.As(err, &repErr) {
		t.Fatalf("Expected ReportedError, got %v", err)
	}
	if repErr.Message != "scraper blocked by robots policy" {
		t.Errorf("Expected service message verbatim, got %q", repErr.Message)
	}
}

func TestResults_MissingResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"job_id":"abc-123","status":"completed"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Results(context.Background(), "abc-123")
	var loadErr *model.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected LoadError, got %v", err)
	}
	if loadErr.JobID != "abc-123" {
		t.Errorf("Unexpected job id in error: %s", loadErr.JobID)
	}
}

func TestResults_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{
			"job_id": "abc-123",
			"status": "completed",
			"result": {
				"url": "https://example.com",
				"timestamp": "2026-02-11T10:00:00Z",
				"summary": {"nature": "Machining", "products_services": "CNC parts", "countries_operating": ["GB"], "countries_dealing_with": ["GB", "FR"]},
				"naics_codes": {"codes": ["332710"], "primary_code": "332710", "explanation": "Machine shops"},
				"flags": {
					"sanctions": {"flags_raised": false, "matches": [], "evidence": [], "risk_level": "NONE", "risk_score": 5, "risk_explanation": "No matches"},
					"military": {"flags_raised": false, "matches": [], "evidence": [], "risk_level": "NONE", "risk_score": 5, "risk_explanation": "No matches"},
					"dual_use": {"flags_raised": true, "matches": ["5-axis"], "evidence": ["We mill 5-axis parts"], "risk_level": "MEDIUM", "risk_score": 55, "risk_explanation": "Dual-use machining"},
					"any_flags": true
				}
			}
		}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	res, err := client.Results(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.URL != "https://example.com" {
		t.Errorf("Unexpected url: %s", res.URL)
	}
	if !res.Flags.AnyFlags || !res.Flags.DualUse.FlagsRaised {
		t.Error("Expected dual-use flag raised")
	}
	if res.Flags.DualUse.RiskLevel != model.RiskMedium {
		t.Errorf("Unexpected risk level: %s", res.Flags.DualUse.RiskLevel)
	}
	if res.Address != nil {
		t.Error("Expected nil address when omitted")
	}
}

func TestLogs_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logs/abc-123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"logs":["[worker] starting","[scraper] fetching homepage"]}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	lines, err := client.Logs(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(lines) != 2 || lines[0] != "[worker] starting" {
		t.Errorf("Unexpected log lines: %v", lines)
	}
}

func TestHistory_LimitAndDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("Expected limit=5, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"items":[{"job_id":"abc","url":"https://example.com","status":"completed","created_at":"2026-02-11T10:00:00Z"}],"total":1}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	entries, err := client.History(context.Background(), 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Status != model.StatusCompleted {
		t.Errorf("Unexpected status: %s", entries[0].Status)
	}
}
