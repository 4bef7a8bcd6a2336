package touchframe

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTickStatsWindow(t *testing.T) {
	var s tickStats
	t0 := time.Unix(1000, 0)

	if _, ok := s.record(t0, time.Millisecond, 1); ok {
		t.Fatal("first tick should not flush")
	}
	if _, ok := s.record(t0.Add(500*time.Millisecond), 3*time.Millisecond, 0); ok {
		t.Fatal("half a second should not flush")
	}
	r, ok := s.record(t0.Add(time.Second), 2*time.Millisecond, 2)
	if !ok {
		t.Fatal("expected a flush after one second")
	}
	if r.window != time.Second || r.ticks != 3 || r.posts != 3 {
		t.Errorf("report = %+v", r)
	}
	if r.busy != 6*time.Millisecond || r.slowest != 3*time.Millisecond {
		t.Errorf("busy/slowest = %v/%v", r.busy, r.slowest)
	}

	// The next window starts empty.
	r, ok = s.record(t0.Add(2*time.Second), time.Millisecond, 0)
	if !ok || r.ticks != 1 || r.slowest != time.Millisecond {
		t.Errorf("second window = %+v (%v)", r, ok)
	}
}

func TestTickReportLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tickReport{window: time.Second, ticks: 4, posts: 2, busy: 8 * time.Millisecond, slowest: 5 * time.Millisecond}.log(logger)

	out := buf.String()
	for _, want := range []string{"smoothing ticks", "ticks=4", "posts=2", "avg=2ms", "slowest=5ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}

	buf.Reset()
	tickReport{}.log(logger)
	if !strings.Contains(buf.String(), "avg=0s") {
		t.Errorf("empty report log = %q", buf.String())
	}
}

func TestEngineDebugStatsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := DefaultConfig()
	cfg.Debug = true
	e := NewEngine(cfg, logger)
	defer e.Close()

	e.Tick()
	e.stats.mu.Lock()
	e.stats.start = e.stats.start.Add(-2 * time.Second)
	e.stats.mu.Unlock()
	e.Tick()

	if !strings.Contains(buf.String(), "smoothing ticks") {
		t.Errorf("log = %q, want tick statistics", buf.String())
	}
}
