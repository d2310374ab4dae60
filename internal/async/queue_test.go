package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueueProcessesAllJobs(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]int)
	handler := func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen[path]++
		return nil
	}

	q := NewDocumentQueue(handler, nil, WithWorkers(3), WithQueueSize(8))
	paths := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
	for _, p := range paths {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	for _, p := range paths {
		if seen[p] != 1 {
			t.Errorf("path %s processed %d times, want 1", p, seen[p])
		}
	}
}

// Handler errors are contained: they must not stop the workers.
func TestQueueSurvivesHandlerErrors(t *testing.T) {
	var calls atomic.Int64
	handler := func(_ context.Context, path string) error {
		calls.Add(1)
		if path == "bad.pdf" {
			return errors.New("boom")
		}
		return nil
	}

	q := NewDocumentQueue(handler, nil, WithWorkers(1))
	for _, p := range []string{"bad.pdf", "good.pdf"} {
		_ = q.Enqueue(context.Background(), Job{Path: p})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if got := calls.Load(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestQueueEnqueueAfterShutdown(t *testing.T) {
	var calls atomic.Int64
	q := NewDocumentQueue(func(context.Context, string) error {
		calls.Add(1)
		return nil
	}, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if err := q.Enqueue(context.Background(), Job{Path: "late.pdf"}); err != nil {
		t.Fatalf("Enqueue after shutdown: %v", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("late job was processed %d times", got)
	}

	// double shutdown is a no-op
	q.Shutdown(context.Background())
}
