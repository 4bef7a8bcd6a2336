package touchframe

import (
	"errors"
	"testing"
)

func TestPolicySupports(t *testing.T) {
	p := NewPolicy(GestureTap|GestureDrag, 4)
	tests := []struct {
		name string
		g    Gesture
		want bool
	}{
		{"single enabled", GestureTap, true},
		{"both enabled", GestureTap | GestureDrag, true},
		{"one disabled", GestureTap | GestureRotate, false},
		{"disabled", GestureResize, false},
		{"none", GestureNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Supports(tt.g); got != tt.want {
				t.Errorf("Supports(%v) = %v, want %v", tt.g, got, tt.want)
			}
		})
	}
	if !p.SupportsAny(GestureTap | GestureRotate) {
		t.Error("SupportsAny should accept a partial match")
	}
	if p.TapWindow != DefaultTapWindow {
		t.Errorf("TapWindow = %v, want default", p.TapWindow)
	}
}

func TestParseGestures(t *testing.T) {
	tests := []struct {
		in   string
		want Gesture
	}{
		{"tap|drag", GestureTap | GestureDrag},
		{"translate, rotate, resize", GestureTranslate | GestureRotate | GestureResize},
		{"Scroll", GestureScrollX | GestureScrollY},
		{"move scale bounds", GestureTranslate | GestureResize | GestureBoundsCheck},
		{"all", GestureAll},
		{"", GestureNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGestures(tt.in)
			if err != nil {
				t.Fatalf("ParseGestures(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseGestures(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseGesturesUnknown(t *testing.T) {
	_, err := ParseGestures("tap|wiggle")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGestureString(t *testing.T) {
	if s := (GestureTap | GestureSpin).String(); s != "tap|spin" {
		t.Errorf("String = %q, want tap|spin", s)
	}
	if s := GestureNone.String(); s != "none" {
		t.Errorf("String = %q, want none", s)
	}
	g, err := ParseGestures(GestureAll.String())
	if err != nil || g != GestureAll {
		t.Errorf("round trip of all = %v, %v", g, err)
	}
}
