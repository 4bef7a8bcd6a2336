package touchframe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	var steps atomic.Int64
	s := NewScheduler(time.Millisecond, func() { steps.Add(1) }, nil)
	if s.Running() {
		t.Fatal("new scheduler should be stopped")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start = %v, want ErrRunning", err)
	}
	waitFor(t, "three ticks", func() bool { return s.Ticks() >= 3 })
	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("Running after Stop")
	}

	after := steps.Load()
	time.Sleep(10 * time.Millisecond)
	if steps.Load() != after {
		t.Error("step ran after Stop returned")
	}
	if uint64(after) != s.Ticks() {
		t.Errorf("Ticks = %d, steps = %d", s.Ticks(), after)
	}

	// A stopped scheduler can be restarted.
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Stop()
}

func TestSchedulerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var steps atomic.Int64
	s := NewScheduler(time.Millisecond, func() { steps.Add(1) }, nil)
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "a tick", func() bool { return steps.Load() > 0 })
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after context cancel")
	}
}

func TestSchedulerRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	var n atomic.Int64
	s := NewScheduler(time.Millisecond, func() {
		if n.Add(1) == 1 {
			panic("boom")
		}
	}, logger)
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "ticks after the panic", func() bool { return s.Ticks() >= 2 })
	s.Stop()

	if s.Panics() != 1 {
		t.Errorf("Panics = %d, want 1", s.Panics())
	}
	if !strings.Contains(buf.String(), "smoothing tick panicked") {
		t.Errorf("log = %q, want panic warning", buf.String())
	}
}

func TestSchedulerDefaultInterval(t *testing.T) {
	s := NewScheduler(0, func() {}, nil)
	if s.Interval() != DefaultTickInterval {
		t.Errorf("Interval = %v, want %v", s.Interval(), DefaultTickInterval)
	}
}
