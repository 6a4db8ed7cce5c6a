package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"eventscout/internal/model"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run(_ context.Context) (*model.RunSummary, error) {
	r.runs.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &model.RunSummary{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunImmediatelyThenOnInterval(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for runner.runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 runs, got %d", runner.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("pipeline broke")}
	s := New(runner, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for runner.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected runs to continue past a failure, got %d", runner.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestRunSkipsWhenAlreadyCancelled(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)

	if got := runner.runs.Load(); got != 0 {
		t.Errorf("cancelled context should skip the initial run, got %d runs", got)
	}
}
