package poll

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tradecheck/internal/model"
)

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("Timed out waiting for %s", what)
	}
}

func TestStatusPoller_FirstPollImmediate(t *testing.T) {
	var calls atomic.Int32
	first := make(chan struct{})
	fetch := func(ctx context.Context, jobID string) (*model.StatusUpdate, error) {
		if calls.Add(1) == 1 {
			close(first)
		}
		return &model.StatusUpdate{JobID: jobID, Status: model.StatusProcessing, Progress: 10}, nil
	}

	p := NewStatusPoller("job-1", time.Hour, fetch)
	p.Start(context.Background(), nil, nil)
	defer p.Cancel()

	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("Expected an immediate first poll before the first tick")
	}
}

func TestStatusPoller_TransientErrorsNeverStopPolling(t *testing.T) {
	var calls atomic.Int32
	var errs atomic.Int32
	fetch := func(ctx context.Context, jobID string) (*model.StatusUpdate, error) {
		n := calls.Add(1)
		if n <= 3 {
			return nil, fmt.Errorf("transient failure %d", n)
		}
		return &model.StatusUpdate{Status: model.StatusCompleted, Progress: 100}, nil
	}

	p := NewStatusPoller("job-1", 10*time.Millisecond, fetch)
	p.OnError(func(err error) { errs.Add(1) })

	var terminal model.JobStatus
	p.Start(context.Background(), nil, func(status model.JobStatus) {
		terminal = status
	})

	waitClosed(t, p.Done(), "poller exit")
	if terminal != model.StatusCompleted {
		t.Errorf("Expected completed terminal, got %q", terminal)
	}
	if errs.Load() != 3 {
		t.Errorf("Expected 3 transient errors reported, got %d", errs.Load())
	}
}

func TestStatusPoller_TerminalCancelsSelfAndPaired(t *testing.T) {
	statusFetch := func(ctx context.Context, jobID string) (*model.StatusUpdate, error) {
		return &model.StatusUpdate{Status: model.StatusCompleted, Progress: 100}, nil
	}
	logFetch := func(ctx context.Context, jobID string) ([]string, error) {
		return []string{"line"}, nil
	}

	lp := NewLogPoller("job-1", 10*time.Millisecond, logFetch)
	sp := NewStatusPoller("job-1", 10*time.Millisecond, statusFetch)
	sp.BindLogPoller(lp)

	var terminalCount atomic.Int32
	lp.Start(context.Background(), func(lines []string) {})
	sp.Start(context.Background(), nil, func(status model.JobStatus) {
		terminalCount.Add(1)
	})

	waitClosed(t, sp.Done(), "status poller exit")
	waitClosed(t, lp.Done(), "log poller exit")

	if terminalCount.Load() != 1 {
		t.Errorf("Expected exactly one terminal callback, got %d", terminalCount.Load())
	}
}

func TestStatusPoller_CancelIdempotent(t *testing.T) {
	fetch := func(ctx context.Context, jobID string) (*model.StatusUpdate, error) {
		return &model.StatusUpdate{Status: model.StatusProcessing, Progress: 10}, nil
	}
	p := NewStatusPoller("job-1", 10*time.Millisecond, fetch)
	p.Start(context.Background(), nil, nil)

	p.Cancel()
	p.Cancel()
	p.Cancel()
	waitClosed(t, p.Done(), "poller exit")
}

func TestStatusPoller_StaleResponseDiscarded(t *testing.T) {
	p := NewStatusPoller("job-1", time.Hour, nil)

	var mu sync.Mutex
	var applied []int
	p.onUpdate = func(update model.StatusUpdate) {
		mu.Lock()
		applied = append(applied, update.Progress)
		mu.Unlock()
	}

	// newer response lands first; the older in-flight one must be dropped
	if !p.apply(2, model.StatusUpdate{Status: model.StatusProcessing, Progress: 60}) {
		t.Fatal("Expected seq 2 to apply")
	}
	if p.apply(1, model.StatusUpdate{Status: model.StatusProcessing, Progress: 30}) {
		t.Error("Expected stale seq 1 to be discarded")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != 60 {
		t.Errorf("Unexpected applied updates: %v", applied)
	}
}

func TestStatusPoller_NoApplyAfterCancel(t *testing.T) {
	p := NewStatusPoller("job-1", time.Hour, nil)
	var count atomic.Int32
	p.onUpdate = func(update model.StatusUpdate) { count.Add(1) }

	p.Cancel()
	if p.apply(1, model.StatusUpdate{Status: model.StatusCompleted, Progress: 100}) {
		t.Error("Expected in-flight result to be dropped after cancel")
	}
	if count.Load() != 0 {
		t.Errorf("Expected no updates applied, got %d", count.Load())
	}
}
