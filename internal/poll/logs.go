package poll

import (
	"context"
	"sync"
	"time"
)

// LogsFetch fetches the cumulative log lines of a job
type LogsFetch func(ctx context.Context, jobID string) ([]string, error)

// LogPoller repeatedly fetches job logs on its own timer, independent of the
// status poller. Logs are optional telemetry: any fetch error, non-2xx or
// non-JSON response is silently ignored for that tick. The poller stops only
// when cancelled; terminality is decided by the status poller.
type LogPoller struct {
	jobID    string
	interval time.Duration
	fetch    LogsFetch
	onLines  func([]string)

	mu        sync.Mutex
	cancelled bool
	seen      int

	cancelOnce sync.Once
	stop       chan struct{}
	done       chan struct{}
}

// NewLogPoller creates a log poller for the given job
func NewLogPoller(jobID string, interval time.Duration, fetch LogsFetch) *LogPoller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &LogPoller{
		jobID:    jobID,
		interval: interval,
		fetch:    fetch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins polling immediately and then on every interval tick.
// onLines receives only lines not seen on a previous tick.
func (p *LogPoller) Start(ctx context.Context, onLines func([]string)) {
	p.onLines = onLines

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			p.tick(ctx)
			select {
			case <-ctx.Done():
				p.Cancel()
				return
			case <-p.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

func (p *LogPoller) tick(ctx context.Context) {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	tickCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	lines, err := p.fetch(tickCtx, p.jobID)
	if err != nil {
		return
	}
	p.deliver(lines)
}

// deliver emits the tail of the cumulative log beyond what was already seen.
// A shorter list than before means the service restarted its log; the cursor
// resets without re-emitting.
func (p *LogPoller) deliver(lines []string) {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return
	}
	if len(lines) < p.seen {
		p.seen = len(lines)
		p.mu.Unlock()
		return
	}
	fresh := lines[p.seen:]
	p.seen = len(lines)
	p.mu.Unlock()

	if len(fresh) > 0 && p.onLines != nil {
		p.onLines(fresh)
	}
}

// Cancel stops the polling schedule; repeated calls are no-ops
func (p *LogPoller) Cancel() {
	p.cancelOnce.Do(func() {
		p.mu.Lock()
		p.cancelled = true
		p.mu.Unlock()
		close(p.stop)
	})
}

// Done is closed once the polling goroutine has exited
func (p *LogPoller) Done() <-chan struct{} {
	return p.done
}
