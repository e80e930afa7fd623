package poll

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLogPoller_DeltaDelivery(t *testing.T) {
	p := NewLogPoller("job-1", time.Hour, nil)

	var mu sync.Mutex
	var batches [][]string
	p.onLines = func(lines []string) {
		mu.Lock()
		batches = append(batches, lines)
		mu.Unlock()
	}

	p.deliver([]string{"a", "b"})
	p.deliver([]string{"a", "b"})
	p.deliver([]string{"a", "b", "c"})

	mu.Lock()
	defer mu.Unlock()
	want := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(batches, want) {
		t.Errorf("Unexpected batches: got %v, want %v", batches, want)
	}
}

func TestLogPoller_ShrunkenLogResetsCursor(t *testing.T) {
	p := NewLogPoller("job-1", time.Hour, nil)

	var mu sync.Mutex
	var batches [][]string
	p.onLines = func(lines []string) {
		mu.Lock()
		batches = append(batches, lines)
		mu.Unlock()
	}

	p.deliver([]string{"a", "b", "c"})
	// service restarted its log
	p.deliver([]string{"x"})
	p.deliver([]string{"x", "y"})

	mu.Lock()
	defer mu.Unlock()
	want := [][]string{{"a", "b", "c"}, {"y"}}
	if !reflect.DeepEqual(batches, want) {
		t.Errorf("Unexpected batches: got %v, want %v", batches, want)
	}
}

func TestLogPoller_ErrorsAreSilent(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context, jobID string) ([]string, error) {
		n := calls.Add(1)
		if n%2 == 0 {
			return nil, fmt.Errorf("flaky logs endpoint")
		}
		return []string{fmt.Sprintf("line-%d", n)}, nil
	}

	var mu sync.Mutex
	var got []string
	p := NewLogPoller("job-1", 10*time.Millisecond, fetch)
	p.Start(context.Background(), func(lines []string) {
		mu.Lock()
		got = append(got, lines...)
		mu.Unlock()
	})

	deadline := time.After(3 * time.Second)
	for {
		if calls.Load() >= 5 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Poller stopped ticking after errors")
		case <-time.After(5 * time.Millisecond):
		}
	}
	p.Cancel()
	waitClosed(t, p.Done(), "log poller exit")

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 {
		t.Error("Expected some delivered lines despite interleaved errors")
	}
}

func TestLogPoller_NoDeliveryAfterCancel(t *testing.T) {
	p := NewLogPoller("job-1", time.Hour, nil)
	var count atomic.Int32
	p.onLines = func(lines []string) { count.Add(1) }

	p.Cancel()
	p.deliver([]string{"late"})
	if count.Load() != 0 {
		t.Errorf("Expected no delivery after cancel, got %d", count.Load())
	}
}
