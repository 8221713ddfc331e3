package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackgroundTasks(t *testing.T) {
	t.Run("wait_drains_tasks", func(t *testing.T) {
		tasks := NewBackgroundTasks(time.Second)
		var ran atomic.Int32
		for i := 0; i < 5; i++ {
			tasks.Go("count", func(ctx context.Context) error {
				ran.Add(1)
				return nil
			})
		}

		if err := tasks.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ran.Load() != 5 {
			t.Errorf("expected 5 tasks to run, got %d", ran.Load())
		}
	})

	t.Run("errors_and_panics_are_contained", func(t *testing.T) {
		tasks := NewBackgroundTasks(time.Second)
		tasks.Go("fails", func(ctx context.Context) error { return errors.New("boom") })
		tasks.Go("panics", func(ctx context.Context) error { panic("boom") })

		if err := tasks.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("task_context_has_deadline", func(t *testing.T) {
		tasks := NewBackgroundTasks(20 * time.Millisecond)
		var expired atomic.Bool
		tasks.Go("slow", func(ctx context.Context) error {
			<-ctx.Done()
			expired.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
			return ctx.Err()
		})

		if err := tasks.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !expired.Load() {
			t.Error("expected task context to hit its deadline")
		}
	})

	t.Run("wait_honors_context", func(t *testing.T) {
		tasks := NewBackgroundTasks(time.Second)
		release := make(chan struct{})
		defer close(release)
		tasks.Go("blocked", func(ctx context.Context) error {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := tasks.Wait(ctx); err == nil {
			t.Error("expected Wait to give up when its context expires")
		}
	})
}
