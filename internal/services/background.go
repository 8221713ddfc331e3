package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guestgate/internal/logger"
)

// BackgroundTasks runs fire-and-forget writes detached from the request that
// scheduled them. Failures are logged and never reported to the caller.
type BackgroundTasks struct {
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewBackgroundTasks creates a task runner whose tasks each get timeout to finish.
func NewBackgroundTasks(timeout time.Duration) *BackgroundTasks {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackgroundTasks{timeout: timeout}
}

// Go runs fn on its own goroutine with a fresh context.
func (b *BackgroundTasks) Go(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Errorw("background task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logger.Get().Errorw("background task failed", "task", name, "error", err.Error())
		}
	}()
}

// Wait blocks until every scheduled task has finished or ctx is done.
func (b *BackgroundTasks) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background tasks still running: %w", ctx.Err())
	}
}
