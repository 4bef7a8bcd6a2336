package touchframe

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTapWindow is the longest contact lifetime that counts as a tap.
const DefaultTapWindow = 500 * time.Millisecond

// Policy is the immutable set of gesture capabilities and thresholds attached
// to one container.
type Policy struct {
	Gestures            Gesture
	DragThresholdPixels float64
	TapWindow           time.Duration
}

// NewPolicy returns a policy with the given gestures and the default tap window.
func NewPolicy(g Gesture, dragThreshold float64) Policy {
	return Policy{Gestures: g, DragThresholdPixels: dragThreshold, TapWindow: DefaultTapWindow}
}

// Supports reports whether every flag in g is enabled.
func (p Policy) Supports(g Gesture) bool {
	return p.Gestures&g == g
}

// SupportsAny reports whether at least one flag in g is enabled.
func (p Policy) SupportsAny(g Gesture) bool {
	return p.Gestures&g != 0
}

var gestureNames = map[string]Gesture{
	"tap":       GestureTap,
	"drag":      GestureDrag,
	"slide":     GestureSlide,
	"scrollx":   GestureScrollX,
	"scrolly":   GestureScrollY,
	"scroll":    GestureScrollX | GestureScrollY,
	"rotate":    GestureRotate,
	"translate": GestureTranslate,
	"move":      GestureTranslate,
	"resize":    GestureResize,
	"scale":     GestureResize,
	"flick":     GestureFlick,
	"spin":      GestureSpin,
	"bounds":    GestureBoundsCheck,
	"none":      GestureNone,
	"all":       GestureAll,
}

// ParseGestures parses gesture names separated by commas, pipes or spaces,
// e.g. "tap|drag" or "translate, rotate, resize".
func ParseGestures(s string) (Gesture, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == ' ' || r == '\t'
	})
	return parseGestureNames(fields)
}

func parseGestureNames(names []string) (Gesture, error) {
	var g Gesture
	for _, name := range names {
		flag, ok := gestureNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("%w: unknown gesture %q", ErrInvalidConfig, name)
		}
		g |= flag
	}
	return g, nil
}

// String lists the enabled gestures joined by "|".
func (g Gesture) String() string {
	if g == GestureNone {
		return "none"
	}
	order := []struct {
		flag Gesture
		name string
	}{
		{GestureTap, "tap"}, {GestureDrag, "drag"}, {GestureSlide, "slide"},
		{GestureScrollX, "scrollx"}, {GestureScrollY, "scrolly"},
		{GestureRotate, "rotate"}, {GestureTranslate, "translate"},
		{GestureResize, "resize"}, {GestureFlick, "flick"},
		{GestureSpin, "spin"}, {GestureBoundsCheck, "bounds"},
	}
	var parts []string
	for _, o := range order {
		if g&o.flag != 0 {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "|")
}
