package touchframe

import (
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

func report(id int, x, y float64) ContactReport {
	return ContactReport{ID: id, Pos: Vec2{x, y}}
}

func TestContactSetPinchScenario(t *testing.T) {
	cs := NewContactSet(500*time.Millisecond, 4)
	cs.Update(0, []ContactReport{report(1, 100, 100), report(2, 200, 100)})
	if !cs.CalculateChanges() {
		t.Fatal("first report should be a change")
	}
	if !cs.JustTouched() || !cs.TwoOrMoreTouching() {
		t.Error("expected JustTouched and TwoOrMoreTouching")
	}

	cs.Update(frame, []ContactReport{report(1, 80, 100), report(2, 220, 100)})
	if !cs.CalculateChanges() {
		t.Fatal("movement should be a change")
	}
	assertNear(t, "ratio", cs.DistanceChangeRatio(), 1.4)
	assertNear(t, "angle", cs.AngleChanged(), 0)
	assertNear(t, "moveX", cs.MoveX(), 0)
	assertNear(t, "moveY", cs.MoveY(), 0)
	if c := cs.MoveCenter(); c != (Vec2{150, 100}) {
		t.Errorf("MoveCenter = %v, want (150,100)", c)
	}
	if cs.JustTouched() || cs.Lifted() {
		t.Error("edge flags should not persist into the move tick")
	}
}

func TestContactSetSingleContactDelta(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(7, 10, 10)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(7, 13, 6)})
	cs.CalculateChanges()
	assertNear(t, "moveX", cs.MoveX(), 3)
	assertNear(t, "moveY", cs.MoveY(), -4)
	assertNear(t, "ratio", cs.DistanceChangeRatio(), 1)
	assertNear(t, "angle", cs.AngleChanged(), 0)
}

func TestContactSetDuplicateTrackedID(t *testing.T) {
	cs := NewContactSet(0, 100)
	cs.Update(0, []ContactReport{report(1, 0, 0)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(1, 10, 0), report(1, 20, 0)})
	cs.CalculateChanges()

	got := cs.Contacts()
	if len(got) != 1 {
		t.Fatalf("contacts = %d, want 1", len(got))
	}
	if got[0].Pos != (Vec2{20, 0}) || got[0].Prev != (Vec2{0, 0}) {
		t.Errorf("pos = %v prev = %v, want (20,0) and (0,0)", got[0].Pos, got[0].Prev)
	}
	assertNear(t, "travel", got[0].Travel, 20)
	assertNear(t, "moveX", cs.MoveX(), 20)
}

func TestContactSetRotation(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 0, 0), report(2, 100, 0)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(1, 0, 0), report(2, 0, 100)})
	cs.CalculateChanges()
	assertNear(t, "angle", cs.AngleChanged(), 90)
	assertNear(t, "ratio", cs.DistanceChangeRatio(), 1)
}

func TestContactSetAngleWraps(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 0, 0), report(2, -100, 1)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(1, 0, 0), report(2, -100, -1)})
	cs.CalculateChanges()
	if a := cs.AngleChanged(); a < 0 || a > 2 {
		t.Errorf("angle across ±180 should be small and positive, got %v", a)
	}
}

func TestContactSetDegeneratePair(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 50, 50), report(2, 50, 50)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(1, 40, 50), report(2, 60, 50)})
	cs.CalculateChanges()
	assertNear(t, "ratio", cs.DistanceChangeRatio(), 1)
	assertNear(t, "angle", cs.AngleChanged(), 0)
}

func TestContactSetNoUpdateIsNoChange(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 5, 5)})
	if !cs.CalculateChanges() {
		t.Fatal("expected change")
	}
	if cs.CalculateChanges() {
		t.Error("second CalculateChanges without Update must report no change")
	}
	if cs.JustTouched() {
		t.Error("JustTouched must reset after one read")
	}
}

func TestContactSetStationaryReportIsNoChange(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 5, 5)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(1, 5, 5)})
	if cs.CalculateChanges() {
		t.Error("identical report should not be a change")
	}
}

func TestContactSetLiftAndEnd(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 0, 0), report(2, 10, 0)})
	cs.CalculateChanges()

	cs.Update(frame, []ContactReport{report(1, 0, 0)})
	cs.CalculateChanges()
	if !cs.Lifted() || cs.Ended() {
		t.Errorf("one of two lifted: Lifted=%v Ended=%v", cs.Lifted(), cs.Ended())
	}

	cs.Update(2*frame, nil)
	cs.CalculateChanges()
	if !cs.Lifted() || !cs.Ended() {
		t.Errorf("last lifted: Lifted=%v Ended=%v", cs.Lifted(), cs.Ended())
	}
	if c := cs.MoveCenter(); c != (Vec2{0, 0}) {
		t.Errorf("center should be retained after the last lift, got %v", c)
	}
}

func TestContactSetEmptyReportOnEmptySet(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, nil)
	if cs.CalculateChanges() {
		t.Error("empty report on empty set should not change")
	}
	if cs.Lifted() {
		t.Error("nothing to lift")
	}
}

func TestContactSetTap(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		slop   float64
		path   []Vec2
		want   bool
	}{
		{"stationary", 500 * time.Millisecond, 4, []Vec2{{10, 10}, {10, 10}, {10, 10}}, true},
		{"small jitter", 500 * time.Millisecond, 4, []Vec2{{10, 10}, {11, 10}, {10, 10}}, true},
		{"travelled", 500 * time.Millisecond, 4, []Vec2{{10, 10}, {20, 10}, {30, 10}}, false},
		{"held too long", 20 * time.Millisecond, 4, []Vec2{{10, 10}, {10, 10}, {10, 10}}, false},
		{"no window", 0, 0, []Vec2{{10, 10}, {10, 10}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := NewContactSet(tt.window, tt.slop)
			var now time.Duration
			for _, p := range tt.path {
				cs.Update(now, []ContactReport{{ID: 1, Pos: p}})
				cs.CalculateChanges()
				if cs.Tapped() {
					t.Fatal("tap must not fire while the contact is down")
				}
				now += frame
			}
			cs.Update(now, nil)
			cs.CalculateChanges()
			if cs.Tapped() != tt.want {
				t.Errorf("Tapped = %v, want %v", cs.Tapped(), tt.want)
			}
		})
	}
}

func TestContactSetArrivalDoesNotJumpMove(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 0, 0)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(1, 2, 0), report(2, 300, 300)})
	cs.CalculateChanges()
	assertNear(t, "moveX", cs.MoveX(), 2)
	assertNear(t, "moveY", cs.MoveY(), 0)
	if !cs.JustTouched() {
		t.Error("second contact should set JustTouched")
	}
}

func TestContactSetReferencePairIsLongestTracked(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(1, 0, 0), report(2, 100, 0)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(1, 0, 0), report(2, 100, 0), report(3, 50, 50)})
	cs.CalculateChanges()
	// Contact 3 moves a lot; the pair (1,2) does not change.
	cs.Update(2*frame, []ContactReport{report(1, 0, 0), report(2, 100, 0), report(3, 500, 500)})
	cs.CalculateChanges()
	assertNear(t, "ratio", cs.DistanceChangeRatio(), 1)
	assertNear(t, "angle", cs.AngleChanged(), 0)
}

func TestContactsInArrivalOrder(t *testing.T) {
	cs := NewContactSet(0, 0)
	cs.Update(0, []ContactReport{report(9, 0, 0)})
	cs.CalculateChanges()
	cs.Update(frame, []ContactReport{report(9, 0, 0), report(3, 1, 1)})
	cs.CalculateChanges()
	got := cs.Contacts()
	if len(got) != 2 || got[0].ID != 9 || got[1].ID != 3 {
		t.Errorf("Contacts = %+v, want ids [9 3]", got)
	}
	if cs.Count() != 2 {
		t.Errorf("Count = %d, want 2", cs.Count())
	}
}
