package touchframe

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler calls a step function at a fixed interval on its own goroutine,
// independent of the touch sampling rate.
type Scheduler struct {
	interval time.Duration
	step     func()
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}

	ticks  atomic.Uint64
	panics atomic.Uint64
}

// NewScheduler creates a stopped scheduler. A nil logger discards output.
func NewScheduler(interval time.Duration, step func(), logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Scheduler{interval: interval, step: step, logger: logger}
}

// Interval returns the tick interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Start launches the tick loop. It stops when ctx is cancelled or Stop is
// called. Starting a running scheduler returns ErrRunning.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrRunning
	}
	tickCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})
	go s.loop(tickCtx, s.stopped)
	s.logger.Debug("scheduler started", "interval", s.interval)
	return nil
}

// Stop cancels the tick loop and waits for it to exit. Once Stop returns no
// further step runs. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, stopped := s.cancel, s.stopped
	s.cancel, s.stopped = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-stopped
	s.logger.Debug("scheduler stopped", "ticks", s.ticks.Load())
}

// Running reports whether the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Ticks returns the number of completed steps.
func (s *Scheduler) Ticks() uint64 { return s.ticks.Load() }

// Panics returns the number of steps that panicked.
func (s *Scheduler) Panics() uint64 { return s.panics.Load() }

func (s *Scheduler) loop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runStep()
		}
	}
}

// runStep runs one step, recovering and logging a panic.
func (s *Scheduler) runStep() {
	defer func() {
		if r := recover(); r != nil {
			s.panics.Add(1)
			s.logger.Warn("smoothing tick panicked", "panic", r)
		}
	}()
	s.step()
	s.ticks.Add(1)
}
