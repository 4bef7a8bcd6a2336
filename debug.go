package touchframe

import (
	"log/slog"
	"sync"
	"time"
)

// tickStats aggregates smoothing tick timings over one-second windows.
// Only populated when Config.Debug is set.
type tickStats struct {
	mu      sync.Mutex
	start   time.Time
	ticks   int
	posts   int
	busy    time.Duration
	slowest time.Duration
}

// tickReport is one flushed window.
type tickReport struct {
	window  time.Duration
	ticks   int
	posts   int
	busy    time.Duration
	slowest time.Duration
}

// record adds one tick. It returns a report and true when the current window
// has lasted at least a second.
func (s *tickStats) record(now time.Time, took time.Duration, posts int) (tickReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start.IsZero() {
		s.start = now
	}
	s.ticks++
	s.posts += posts
	s.busy += took
	s.slowest = max(s.slowest, took)

	window := now.Sub(s.start)
	if window < time.Second {
		return tickReport{}, false
	}
	r := tickReport{window: window, ticks: s.ticks, posts: s.posts, busy: s.busy, slowest: s.slowest}
	s.start = now
	s.ticks, s.posts = 0, 0
	s.busy, s.slowest = 0, 0
	return r, true
}

func (r tickReport) log(logger *slog.Logger) {
	var avg time.Duration
	if r.ticks > 0 {
		avg = r.busy / time.Duration(r.ticks)
	}
	logger.Debug("smoothing ticks",
		"window", r.window,
		"ticks", r.ticks,
		"posts", r.posts,
		"avg", avg,
		"slowest", r.slowest,
	)
}
