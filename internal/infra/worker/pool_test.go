package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	logger := zerolog.Nop()
	pool := NewPool(2, &logger)
	pool.Start(context.Background())
	defer pool.Stop()

	var ran int64
	done := make(chan struct{})
	err := pool.Submit(func(ctx context.Context) error {
		atomic.AddInt64(&ran, 1)
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
	if atomic.LoadInt64(&ran) != 1 {
		t.Fatalf("ran %d times", ran)
	}
}

func TestPoolSubmitRejectsWhenSaturated(t *testing.T) {
	logger := zerolog.Nop()
	pool := NewPool(1, &logger)
	// Not started, so the queue only drains into its buffer.

	block := func(ctx context.Context) error { return nil }
	var err error
	for i := 0; i < 16; i++ {
		if err = pool.Submit(block); err != nil {
			break
		}
	}
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}

	if err := pool.Submit(nil); err == nil {
		t.Fatal("nil task must be rejected")
	}
}
