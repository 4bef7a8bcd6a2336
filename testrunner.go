package touchframe

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultScriptFrame is the input frame length used when a script names none.
const DefaultScriptFrame = 16 * time.Millisecond

// ScriptStep is a single action in a gesture script.
type ScriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	// Distance and ToDistance are the pinch start and end spacing.
	Distance   float64 `yaml:"distance,omitempty"`
	ToDistance float64 `yaml:"toDistance,omitempty"`
	Radius     float64 `yaml:"radius,omitempty"`
	Degrees    float64 `yaml:"degrees,omitempty"`
	Frames     int     `yaml:"frames,omitempty"`
}

// Script is a recorded sequence of synthetic gestures. Scripts are YAML; a
// JSON document parses the same way.
type Script struct {
	Frame time.Duration `yaml:"frame"`
	Steps []ScriptStep  `yaml:"steps"`
}

// ParseScript decodes and checks a script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "tap", "drag", "pinch", "rotate", "wait":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	if s.Frame <= 0 {
		s.Frame = DefaultScriptFrame
	}
	return &s, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %q: %w", path, err)
	}
	return ParseScript(data)
}

// Runner replays a script against an engine deterministically. Each Step
// feeds one input frame through FeedScreen, runs the smoothing ticks that
// fit in the frame, and applies the posted transforms with Update. Do not
// Start the engine's scheduler while a runner drives it.
type Runner struct {
	engine *Engine
	script *Script
	inj    *Injector

	cursor int
	now    time.Duration
	carry  time.Duration
	frames int
	done   bool
}

// NewRunner creates a runner for s on e.
func NewRunner(e *Engine, s *Script) *Runner {
	return &Runner{engine: e, script: s, inj: NewInjector()}
}

// Done reports whether every step has been replayed.
func (r *Runner) Done() bool { return r.done }

// Frames returns the number of frames fed so far.
func (r *Runner) Frames() int { return r.frames }

// Now returns the script clock.
func (r *Runner) Now() time.Duration { return r.now }

// Step advances the replay by one frame. It reports false once the script
// is done.
func (r *Runner) Step() bool {
	if r.done {
		return false
	}
	if r.inj.Len() == 0 {
		if r.cursor >= len(r.script.Steps) {
			r.done = true
			r.engine.logger.Debug("script done", "frames", r.frames)
			return false
		}
		st := r.script.Steps[r.cursor]
		r.cursor++
		r.queue(st)
		r.engine.logger.Debug("script step", "action", st.Action, "label", st.Label, "at", r.now)
	}

	f, _ := r.inj.Next()
	r.engine.FeedScreen(r.now, f)

	interval := r.engine.sched.Interval()
	r.carry += r.script.Frame
	for r.carry >= interval {
		r.engine.Tick()
		r.carry -= interval
	}
	r.engine.Update(r.script.Frame)

	r.now += r.script.Frame
	r.frames++
	return true
}

// Run steps until the script is done and returns the number of frames fed.
func (r *Runner) Run() int {
	for r.Step() {
	}
	return r.frames
}

func (r *Runner) queue(st ScriptStep) {
	switch st.Action {
	case "tap":
		r.inj.Tap(st.X, st.Y)
	case "drag":
		r.inj.Drag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames)
	case "pinch":
		r.inj.Pinch(Vec2{st.X, st.Y}, st.Distance, st.ToDistance, st.Frames)
	case "rotate":
		r.inj.Rotate(Vec2{st.X, st.Y}, st.Radius, st.Degrees, st.Frames)
	case "wait":
		r.inj.Wait(max(st.Frames, 1))
	}
}
