// Package runner is the top-level controller of a job lifecycle: it submits
// a URL, starts the paired status and log pollers, reacts to the terminal
// status, and loads the finished report.
package runner

import (
	"context"
	"sync"
	"time"

	"tradecheck/internal/history"
	"tradecheck/internal/model"
	"tradecheck/internal/poll"
	"tradecheck/internal/report"
	"tradecheck/internal/validate"
)

// Service is the analysis API surface the runner needs
type Service interface {
	Analyze(ctx context.Context, url string) (string, error)
	Status(ctx context.Context, jobID string) (*model.StatusUpdate, error)
	Results(ctx context.Context, jobID string) (*model.Result, error)
	Logs(ctx context.Context, jobID string) ([]string, error)
}

// Phase is the client-observed lifecycle state of a job
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseSubmitting     Phase = "submitting"
	PhasePolling        Phase = "polling"
	PhaseCompleted      Phase = "completed"
	PhaseFailed         Phase = "failed"
	PhaseResultsLoaded  Phase = "resultsLoaded"
	PhaseResultsLoadErr Phase = "resultsLoadError"
)

// Events receives lifecycle notifications. Every callback is optional.
// Callbacks fire from the polling goroutines in tick order.
type Events struct {
	OnPhase     func(Phase)
	OnStatus    func(model.StatusUpdate)
	OnLogs      func(lines []string)
	OnResult    func(*model.Result)
	OnFailure   func(message string)
	OnLoadError func(error)
	OnPollError func(error)
}

func (e Events) phase(p Phase) {
	if e.OnPhase != nil {
		e.OnPhase(p)
	}
}

// Runner orchestrates job lifecycles against one analysis service
type Runner struct {
	svc      Service
	history  *history.Cache
	interval time.Duration
	events   Events

	// completed reports are immutable, so they archive forever
	reports *report.Store

	mu      sync.Mutex
	current *JobContext
}

// New creates a runner. history may be nil when no history view exists;
// a nil store falls back to a memory-only archive.
func New(svc Service, hist *history.Cache, store *report.Store, interval time.Duration, events Events) *Runner {
	if interval <= 0 {
		interval = poll.DefaultInterval
	}
	if store == nil {
		store = report.NewStore("")
	}
	return &Runner{
		svc:      svc,
		history:  hist,
		interval: interval,
		events:   events,
		reports:  store,
	}
}

// JobContext binds one job identifier to its two active pollers. At most one
// context is actively polling per runner; a new submission supersedes and
// cancels the previous one.
type JobContext struct {
	Job model.Job

	status *poll.StatusPoller
	logs   *poll.LogPoller

	mu       sync.Mutex
	phase    Phase
	progress int
	result   *model.Result
	finalErr error

	loadOnce sync.Once
	done     chan struct{}
}

// Phase returns the current lifecycle phase
func (jc *JobContext) Phase() Phase {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return jc.phase
}

// Progress returns the displayed progress, clamped and non-regressing
func (jc *JobContext) Progress() int {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return jc.progress
}

// Outcome returns the loaded result or the terminal error once Done is closed
func (jc *JobContext) Outcome() (*model.Result, error) {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return jc.result, jc.finalErr
}

// Done is closed when the lifecycle has fully settled, results included
func (jc *JobContext) Done() <-chan struct{} {
	return jc.done
}

// Cancel stops both pollers. Idempotent.
func (jc *JobContext) Cancel() {
	jc.status.Cancel()
	jc.logs.Cancel()
}

// Submit validates and submits a URL for analysis, then starts the paired
// pollers bound to the returned job identifier. Invalid input fails before
// any network call. A submission failure reverts to idle and starts nothing.
func (r *Runner) Submit(ctx context.Context, rawURL string) (*JobContext, error) {
	siteURL, err := validate.Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	r.events.phase(PhaseSubmitting)
	if r.events.OnStatus != nil {
		r.events.OnStatus(model.StatusUpdate{
			Status:   model.StatusQueued,
			Progress: 0,
			Message:  "Submitting analysis job...",
		})
	}

	jobID, err := r.svc.Analyze(ctx, siteURL)
	if err != nil {
		r.events.phase(PhaseIdle)
		return nil, err
	}

	jc := &JobContext{
		Job: model.Job{
			ID:        jobID,
			SourceURL: siteURL,
			Status:    model.StatusQueued,
			CreatedAt: time.Now().UTC(),
		},
		phase: PhasePolling,
		done:  make(chan struct{}),
	}
	jc.status = poll.NewStatusPoller(jobID, r.interval, r.svc.Status)
	jc.logs = poll.NewLogPoller(jobID, r.interval, r.svc.Logs)
	jc.status.BindLogPoller(jc.logs)
	if r.events.OnPollError != nil {
		jc.status.OnError(r.events.OnPollError)
	}

	// one active context per runner: a stray tick from a superseded job must
	// not touch the new display state
	r.mu.Lock()
	prev := r.current
	r.current = jc
	r.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}

	r.events.phase(PhasePolling)
	jc.logs.Start(ctx, func(lines []string) {
		if r.events.OnLogs != nil {
			r.events.OnLogs(lines)
		}
	})
	jc.status.Start(ctx,
		func(update model.StatusUpdate) { r.applyStatus(jc, update) },
		func(status model.JobStatus) { r.finish(ctx, jc, status) },
	)

	r.refreshHistoryAsync()
	return jc, nil
}

// applyStatus clamps progress to the displayable range and never lets a
// late or resetting value regress what is already shown.
func (r *Runner) applyStatus(jc *JobContext, update model.StatusUpdate) {
	jc.mu.Lock()
	progress := model.ClampProgress(update.Progress)
	if progress < jc.progress {
		progress = jc.progress
	}
	jc.progress = progress
	jc.Job.Status = update.Status
	jc.Job.Progress = progress
	jc.Job.Message = update.Message
	jc.mu.Unlock()

	update.Progress = progress
	if r.events.OnStatus != nil {
		r.events.OnStatus(update)
	}
}

// finish reacts to the terminal status observed by the status poller. On
// completion the report is fetched exactly once; on failure a fixed generic
// message is surfaced and no results fetch occurs.
func (r *Runner) finish(ctx context.Context, jc *JobContext, status model.JobStatus) {
	jc.loadOnce.Do(func() {
		defer close(jc.done)

		if status == model.StatusFailed {
			jc.mu.Lock()
			jc.phase = PhaseFailed
			jc.finalErr = &model.ReportedError{Message: model.GenericFailureMessage}
			jc.mu.Unlock()

			r.events.phase(PhaseFailed)
			if r.events.OnFailure != nil {
				r.events.OnFailure(model.GenericFailureMessage)
			}
			return
		}

		r.events.phase(PhaseCompleted)
		result, err := r.LoadResult(ctx, jc.Job.ID)
		jc.mu.Lock()
		if err != nil {
			jc.phase = PhaseResultsLoadErr
			jc.finalErr = err
		} else {
			jc.phase = PhaseResultsLoaded
			jc.result = result
		}
		jc.mu.Unlock()

		if err != nil {
			r.events.phase(PhaseResultsLoadErr)
			if r.events.OnLoadError != nil {
				r.events.OnLoadError(err)
			}
			return
		}
		r.events.phase(PhaseResultsLoaded)
		if r.events.OnResult != nil {
			r.events.OnResult(result)
		}
	})
}

// LoadResult fetches the report for a completed job. Results are immutable
// once produced, so repeat views are served from the archive.
func (r *Runner) LoadResult(ctx context.Context, jobID string) (*model.Result, error) {
	if result, found := r.reports.Get(jobID); found {
		return result, nil
	}
	result, err := r.svc.Results(ctx, jobID)
	if err != nil {
		return nil, err
	}
	r.reports.Put(jobID, result)
	return result, nil
}

// refreshHistoryAsync triggers a history refresh after submission.
// Fire-and-forget: a failure here never fails the submission.
func (r *Runner) refreshHistoryAsync() {
	if r.history == nil {
		return
	}
	r.history.Invalidate()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = r.history.Refresh(ctx)
	}()
}
