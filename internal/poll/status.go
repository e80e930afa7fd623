// Package poll implements the fixed-interval polling loops that track one
// analysis job: a status channel and a log channel, each on its own timer.
// The status poller is the single authority on terminality; the log poller
// never inspects job status and stops only when cancelled.
package poll

import (
	"context"
	"sync"
	"time"

	"tradecheck/internal/model"
)

// DefaultInterval is the tick spacing for both polling channels
const DefaultInterval = 2 * time.Second

// StatusFetch fetches the current status of a job
type StatusFetch func(ctx context.Context, jobID string) (*model.StatusUpdate, error)

// StatusPoller repeatedly fetches job status until it observes a terminal
// status or is cancelled. A failed tick never stops polling.
type StatusPoller struct {
	jobID    string
	interval time.Duration
	fetch    StatusFetch

	onUpdate   func(model.StatusUpdate)
	onTerminal func(model.JobStatus)
	onError    func(error)
	paired     *LogPoller

	mu           sync.Mutex
	cancelled    bool
	lastApplied  uint64
	nextSeq      uint64
	terminalSeen bool

	cancelOnce sync.Once
	stop       chan struct{}
	done       chan struct{}
}

// NewStatusPoller creates a poller for the given job. A non-positive
// interval falls back to DefaultInterval.
func NewStatusPoller(jobID string, interval time.Duration, fetch StatusFetch) *StatusPoller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &StatusPoller{
		jobID:    jobID,
		interval: interval,
		fetch:    fetch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// BindLogPoller pairs a log poller whose cancellation this poller drives
// when it observes a terminal status. Termination of both channels is
// decided here and nowhere else.
func (p *StatusPoller) BindLogPoller(lp *LogPoller) {
	p.paired = lp
}

// OnError registers a callback for transient tick failures. The failures are
// informational only; polling always continues.
func (p *StatusPoller) OnError(fn func(error)) {
	p.onError = fn
}

// Start begins polling immediately and then on every interval tick.
// onUpdate fires on every successful tick, terminal or not. onTerminal
// fires at most once, after the paired log poller has been cancelled.
func (p *StatusPoller) Start(ctx context.Context, onUpdate func(model.StatusUpdate), onTerminal func(model.JobStatus)) {
	p.onUpdate = onUpdate
	p.onTerminal = onTerminal

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

// tick performs one fetch, bounded by the poll interval so in-flight
// requests cannot pile up across ticks.
func (p *StatusPoller) tick(ctx context.Context) {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return
	}
	p.nextSeq++
	seq := p.nextSeq
	p.mu.Unlock()

	tickCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	update, err := p.fetch(tickCtx, p.jobID)
	if err != nil {
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	p.apply(seq, *update)
}

// apply delivers one decoded status payload. Responses carrying a sequence
// number older than the latest applied are discarded, as is anything
// arriving after cancellation.
func (p *StatusPoller) apply(seq uint64, update model.StatusUpdate) bool {
	p.mu.Lock()
	if p.cancelled || seq <= p.lastApplied {
		p.mu.Unlock()
		return false
	}
	p.lastApplied = seq
	terminal := update.Status.Terminal() && !p.terminalSeen
	if terminal {
		p.terminalSeen = true
	}
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(update)
	}
	if terminal {
		p.Cancel()
		if p.paired != nil {
			p.paired.Cancel()
		}
		if p.onTerminal != nil {
			p.onTerminal(update.Status)
		}
	}
	return true
}

// Cancel stops the polling schedule. Cancelling an already-cancelled poller
// is a no-op, and a fetch in flight at cancellation time never applies its
// result.
func (p *StatusPoller) Cancel() {
	p.cancelOnce.Do(func() {
		p.mu.Lock()
		p.cancelled = true
		p.mu.Unlock()
		close(p.stop)
	})
}

// Done is closed once the polling goroutine has exited
func (p *StatusPoller) Done() <-chan struct{} {
	return p.done
}
