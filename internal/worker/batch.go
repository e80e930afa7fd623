package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"tradecheck/internal/model"
	"tradecheck/internal/poll"
	"tradecheck/internal/report"
	"tradecheck/internal/validate"
)

// Service is the analysis API surface a batch job needs
type Service interface {
	Analyze(ctx context.Context, url string) (string, error)
	Status(ctx context.Context, jobID string) (*model.StatusUpdate, error)
	Results(ctx context.Context, jobID string) (*model.Result, error)
}

// AnalyzeJob runs one URL through the full job lifecycle: submit, poll the
// status channel until terminal, then load the report on completion.
type AnalyzeJob struct {
	URL      string
	Svc      Service
	Store    *report.Store
	Interval time.Duration
}

// AnalyzeResult is the outcome of one batch analysis
type AnalyzeResult struct {
	URL    string
	JobID  string
	Report *model.Result
	Err    error
}

// GetError returns the job error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Err
}

// Execute runs the lifecycle. Batch jobs skip the log channel; only the
// status channel decides when a job is over.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	siteURL, err := validate.Normalize(j.URL)
	if err != nil {
		return &AnalyzeResult{URL: j.URL, Err: err}
	}

	jobID, err := j.Svc.Analyze(ctx, siteURL)
	if err != nil {
		return &AnalyzeResult{URL: j.URL, Err: err}
	}

	var terminal model.JobStatus
	poller := poll.NewStatusPoller(jobID, j.Interval, j.Svc.Status)
	poller.Start(ctx, nil, func(status model.JobStatus) {
		terminal = status
	})

	select {
	case <-ctx.Done():
		poller.Cancel()
		<-poller.Done()
		return &AnalyzeResult{URL: j.URL, JobID: jobID, Err: ctx.Err()}
	case <-poller.Done():
	}

	if terminal == model.StatusFailed {
		return &AnalyzeResult{
			URL:   j.URL,
			JobID: jobID,
			Err:   &model.ReportedError{Message: model.GenericFailureMessage},
		}
	}

	res, err := j.Svc.Results(ctx, jobID)
	if err != nil {
		return &AnalyzeResult{URL: j.URL, JobID: jobID, Err: err}
	}
	if j.Store != nil {
		j.Store.Put(jobID, res)
	}
	return &AnalyzeResult{URL: j.URL, JobID: jobID, Report: res}
}

// BatchProcessor analyzes multiple URLs concurrently
type BatchProcessor struct {
	svc         Service
	store       *report.Store
	interval    time.Duration
	concurrency int
}

// NewBatchProcessor creates a batch processor. store may be nil.
func NewBatchProcessor(svc Service, store *report.Store, interval time.Duration, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &BatchProcessor{
		svc:         svc,
		store:       store,
		interval:    interval,
		concurrency: concurrency,
	}
}

// ProcessURLs analyzes the given URLs and returns a result per URL
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*AnalyzeResult {
	if len(urls) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, siteURL := range urls {
		pool.Submit(&AnalyzeJob{
			URL:      siteURL,
			Svc:      b.svc,
			Store:    b.store,
			Interval: b.interval,
		})
	}

	results := pool.Wait()
	out := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		out[i] = result.(*AnalyzeResult)
	}
	return out
}

// ProcessFile reads URLs from a file, one per line, and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads deduplicated URLs from a file, skipping blank
// lines and # comments
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return urls, nil
}
