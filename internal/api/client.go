// Package api is a thin request/response wrapper over the analysis service
// HTTP API. It holds no job state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"tradecheck/internal/model"
	"tradecheck/internal/util"
)

const maxErrorBodyBytes = 64 * 1024

// Client talks to the analysis service
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the given API base URL
func NewClient(cfg model.APIConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.ProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	JobID   string          `json:"job_id"`
	Status  model.JobStatus `json:"status"`
	Message string          `json:"message"`
}

type resultsResponse struct {
	JobID  string          `json:"job_id"`
	Status model.JobStatus `json:"status"`
	Result *model.Result   `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type logsResponse struct {
	Logs []string `json:"logs"`
}

type historyResponse struct {
	Items []model.HistoryEntry `json:"items"`
	Total int                  `json:"total"`
}

// Analyze submits a URL for analysis and returns the assigned job identifier
func (c *Client) Analyze(ctx context.Context, siteURL string) (string, error) {
	var resp analyzeResponse
	err := c.doJSON(ctx, http.MethodPost, "/analyze", analyzeRequest{URL: siteURL}, &resp)
	if err != nil {
		return "", &model.SubmissionError{Err: err}
	}
	if strings.TrimSpace(resp.JobID) == "" {
		return "", &model.SubmissionError{Err: fmt.Errorf("service did not return a job id")}
	}
	return resp.JobID, nil
}

// Status fetches the current status of a job
func (c *Client) Status(ctx context.Context, jobID string) (*model.StatusUpdate, error) {
	var update model.StatusUpdate
	path := "/status/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

// Results fetches the full report for a completed job. A service-reported
// analysis failure in the payload surfaces as a ReportedError with the
// service's message verbatim.
func (c *Client) Results(ctx context.Context, jobID string) (*model.Result, error) {
	var resp resultsResponse
	path := "/results/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, &model.LoadError{JobID: jobID, Err: err}
	}
	if resp.Error != "" {
		return nil, &model.ReportedError{Message: resp.Error}
	}
	if resp.Result == nil {
		return nil, &model.LoadError{JobID: jobID, Err: fmt.Errorf("no result in response")}
	}
	return resp.Result, nil
}

// Logs fetches the cumulative log lines of a job
func (c *Client) Logs(ctx context.Context, jobID string) ([]string, error) {
	var resp logsResponse
	path := "/logs/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// History fetches the most recent jobs, newest first
func (c *Client) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var resp historyResponse
	path := "/history?limit=" + strconv.Itoa(limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// doJSON performs one request against the service. Responses must declare a
// JSON content type; anything else is a transport error and is never parsed.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		blob, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request payload: %w", err)
		}
		body = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &model.TransportError{
			Op:     method + " " + path,
			Status: resp.StatusCode,
			Detail: errorDetail(resp),
		}
	}

	if !isJSONResponse(resp) {
		return &model.TransportError{
			Op:     method + " " + path,
			Status: resp.StatusCode,
			Detail: errorDetail(resp),
			Err:    fmt.Errorf("non-JSON content type %q", resp.Header.Get("Content-Type")),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.TransportError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func isJSONResponse(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// errorDetail extracts a short human-readable detail from an error response.
// Proxies and gateways often answer with HTML error pages; the page title is
// the only useful part of those.
func errorDetail(resp *http.Response) string {
	blob, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(blob) == 0 {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/html" {
		if title := htmlTitle(blob); title != "" {
			return title
		}
		return ""
	}

	var apiErr struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(blob, &apiErr) == nil {
		if apiErr.Error != "" {
			return apiErr.Error
		}
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
	}
	return ""
}

func htmlTitle(blob []byte) string {
	doc, err := html.Parse(bytes.NewReader(blob))
	if err != nil {
		return ""
	}
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return title
}
