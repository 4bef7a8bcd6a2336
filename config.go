package touchframe

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPolicyName is the preset used when none is named.
const DefaultPolicyName = "default"

// Config holds the engine's tunables. Durations are written in YAML as
// strings such as "3ms" or "1.2s".
type Config struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Delay        time.Duration `yaml:"delay"`
	DampingDelay time.Duration `yaml:"damping_delay"`

	MinExtent float64 `yaml:"min_extent"`
	MaxExtent float64 `yaml:"max_extent"`

	// Debug logs per-second smoothing tick statistics.
	Debug bool      `yaml:"debug"`
	Log   LogConfig `yaml:"log"`

	// Policies are named gesture presets, e.g. "photo" or "button".
	Policies map[string]PolicyConfig `yaml:"policies"`
}

// PolicyConfig is the YAML form of a Policy.
type PolicyConfig struct {
	Gestures      Gesture       `yaml:"gestures"`
	DragThreshold float64       `yaml:"drag_threshold"`
	TapWindow     time.Duration `yaml:"tap_window"`
}

// Policy converts the preset into a Policy. A zero tap window takes the
// default.
func (pc PolicyConfig) Policy() Policy {
	p := NewPolicy(pc.Gestures, pc.DragThreshold)
	if pc.TapWindow > 0 {
		p.TapWindow = pc.TapWindow
	}
	return p
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
		Delay:        DefaultDelay,
		DampingDelay: DefaultDampingDelay,
		MinExtent:    DefaultMinExtent,
		MaxExtent:    DefaultMaxExtent,
		Log:          LogConfig{Level: "info", Format: "text"},
		Policies: map[string]PolicyConfig{
			DefaultPolicyName: {Gestures: GestureAll, DragThreshold: 4},
			"photo": {
				Gestures:      GestureTranslate | GestureRotate | GestureResize | GestureFlick | GestureSpin | GestureBoundsCheck | GestureTap,
				DragThreshold: 4,
			},
			"button": {Gestures: GestureTap, DragThreshold: 10},
			"slider": {Gestures: GestureTap | GestureSlide, DragThreshold: 2},
			"list":   {Gestures: GestureTap | GestureDrag | GestureScrollY, DragThreshold: 6},
		},
	}
}

// ParseConfig decodes YAML over the defaults and validates the result.
// Presets in data are merged with the built-in ones.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	builtin := cfg.Policies
	cfg.Policies = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	merged := maps.Clone(builtin)
	maps.Copy(merged, cfg.Policies)
	cfg.Policies = merged
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values the engine cannot run with. All
// problems are reported together.
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval))
	}
	if c.Delay <= 0 {
		errs = append(errs, fmt.Errorf("delay must be positive, got %v", c.Delay))
	}
	if c.DampingDelay <= 0 {
		errs = append(errs, fmt.Errorf("damping_delay must be positive, got %v", c.DampingDelay))
	}
	if c.MinExtent < 0 {
		errs = append(errs, fmt.Errorf("min_extent must not be negative, got %v", c.MinExtent))
	}
	if c.MaxExtent <= c.MinExtent {
		errs = append(errs, fmt.Errorf("max_extent %v must exceed min_extent %v", c.MaxExtent, c.MinExtent))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.Log.Format))
	}
	for name, pc := range c.Policies {
		if pc.DragThreshold < 0 {
			errs = append(errs, fmt.Errorf("policy %q: drag_threshold must not be negative", name))
		}
		if pc.TapWindow < 0 {
			errs = append(errs, fmt.Errorf("policy %q: tap_window must not be negative", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Policy returns the named preset. An empty name selects DefaultPolicyName.
func (c Config) Policy(name string) (Policy, error) {
	if name == "" {
		name = DefaultPolicyName
	}
	pc, ok := c.Policies[name]
	if !ok {
		return Policy{}, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, name)
	}
	return pc.Policy(), nil
}

// SmoothParams returns the filter bank parameters.
func (c Config) SmoothParams() SmoothParams {
	return SmoothParams{Interval: c.TickInterval, Delay: c.Delay, DampingDelay: c.DampingDelay}
}

// UnmarshalYAML accepts either a sequence of gesture names or a single
// string such as "tap|drag".
func (g *Gesture) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		parsed, err := parseGestureNames(names)
		if err != nil {
			return err
		}
		*g = parsed
	case yaml.ScalarNode:
		parsed, err := ParseGestures(value.Value)
		if err != nil {
			return err
		}
		*g = parsed
	default:
		return fmt.Errorf("%w: gestures must be a list or a string", ErrInvalidConfig)
	}
	return nil
}

// MarshalYAML writes the gesture set as a "|" separated string.
func (g Gesture) MarshalYAML() (any, error) {
	return g.String(), nil
}
