package touchframe

import (
	"cmp"
	"math"
	"slices"
	"time"
)

const (
	// moveEpsilon is the smallest displacement counted as movement.
	moveEpsilon = 1e-9
	// pairEpsilon guards the distance ratio against coincident contacts.
	pairEpsilon = 1e-6
)

// ContactReport is one contact as reported by the tracking collaborator for a
// single processing tick.
type ContactReport struct {
	ID  int
	Pos Vec2
}

// Contact is one actively tracked touch point.
type Contact struct {
	ID     int
	Pos    Vec2
	Prev   Vec2          // position at the previous report
	Since  time.Duration // tick time of the first report
	Time   time.Duration // tick time of the latest report
	Travel float64       // cumulative path length since the first report
	seq    uint64
}

// ContactSet tracks the contacts on one element and turns raw per-tick
// reports into aggregate gesture signals.
//
// Call Update with each tick's reports, then CalculateChanges exactly once
// before reading any aggregate. Aggregates describe only that tick.
type ContactSet struct {
	// TapWindow is the longest contact lifetime that still counts as a tap.
	// Zero disables the limit.
	TapWindow time.Duration
	// TapSlop is the most a contact may travel and still count as a tap.
	TapSlop float64

	current  map[int]*Contact
	previous map[int]Contact
	removed  []Contact
	nextSeq  uint64
	now      time.Duration
	pending  bool

	moveCenter   Vec2
	actionCenter Vec2
	moveX, moveY float64
	angleChanged float64
	ratio        float64

	changed     bool
	justTouched bool
	started     bool
	lifted      bool
	ended       bool
	tapped      bool
	tapPoint    Vec2
}

// NewContactSet creates an empty contact set.
func NewContactSet(tapWindow time.Duration, tapSlop float64) *ContactSet {
	return &ContactSet{
		TapWindow: tapWindow,
		TapSlop:   tapSlop,
		current:   make(map[int]*Contact),
		previous:  make(map[int]Contact),
		ratio:     1,
	}
}

// Update replaces the current contacts with reports taken at tick time now.
// Contacts missing from reports are lifted. The snapshot taken at the last
// CalculateChanges is kept as the previous tick.
func (cs *ContactSet) Update(now time.Duration, reports []ContactReport) {
	if !cs.pending {
		clear(cs.previous)
		for id, c := range cs.current {
			cs.previous[id] = *c
		}
	}
	cs.now = now

	// A duplicate ID in one report set: the last position wins.
	last := make(map[int]int, len(reports))
	for i, r := range reports {
		last[r.ID] = i
	}
	next := make(map[int]*Contact, len(reports))
	for i, r := range reports {
		if last[r.ID] != i {
			continue
		}
		if c, ok := cs.current[r.ID]; ok {
			c.Prev = c.Pos
			c.Travel += r.Pos.Sub(c.Pos).Len()
			c.Pos = r.Pos
			c.Time = now
			next[r.ID] = c
			continue
		}
		cs.nextSeq++
		next[r.ID] = &Contact{
			ID: r.ID, Pos: r.Pos, Prev: r.Pos,
			Since: now, Time: now, seq: cs.nextSeq,
		}
	}
	for id, c := range cs.current {
		if _, ok := next[id]; !ok {
			cs.removed = append(cs.removed, *c)
		}
	}
	cs.current = next
	cs.pending = true
}

// CalculateChanges computes this tick's aggregates and reports whether
// anything changed. Without an Update since the last call it reports no
// change and clears every edge-triggered flag.
func (cs *ContactSet) CalculateChanges() bool {
	cs.moveX, cs.moveY = 0, 0
	cs.angleChanged = 0
	cs.ratio = 1
	cs.changed = false
	cs.justTouched = false
	cs.started = false
	cs.lifted = false
	cs.ended = false
	cs.tapped = false

	if !cs.pending {
		return false
	}
	cs.pending = false

	var moved bool
	var common []*Contact
	for id, c := range cs.current {
		prev, ok := cs.previous[id]
		if !ok {
			cs.justTouched = true
			continue
		}
		common = append(common, c)
		if c.Pos.Sub(prev.Pos).Len() > moveEpsilon {
			moved = true
		}
	}
	cs.started = cs.justTouched && len(cs.previous) == 0
	cs.lifted = len(cs.removed) > 0
	cs.ended = cs.lifted && len(cs.current) == 0
	cs.changed = cs.justTouched || cs.lifted || moved

	if len(cs.current) > 0 {
		var sum Vec2
		for _, c := range cs.current {
			sum = sum.Add(c.Pos)
		}
		cs.moveCenter = sum.Scale(1 / float64(len(cs.current)))
		cs.actionCenter = cs.moveCenter
	}

	if len(common) > 0 {
		var d Vec2
		for _, c := range common {
			d = d.Add(c.Pos.Sub(cs.previous[c.ID].Pos))
		}
		d = d.Scale(1 / float64(len(common)))
		cs.moveX, cs.moveY = d.X, d.Y
	}

	if len(common) >= 2 {
		slices.SortFunc(common, func(a, b *Contact) int {
			if c := cmp.Compare(a.Since, b.Since); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
		a, b := common[0], common[1]
		cs.ratio, cs.angleChanged = pairChange(
			cs.previous[a.ID].Pos, cs.previous[b.ID].Pos, a.Pos, b.Pos)
	}

	for _, c := range cs.removed {
		if cs.isTap(c) {
			cs.tapped = true
			cs.tapPoint = c.Pos
		}
	}
	cs.removed = cs.removed[:0]
	return cs.changed
}

func (cs *ContactSet) isTap(c Contact) bool {
	if cs.TapWindow > 0 && cs.now-c.Since > cs.TapWindow {
		return false
	}
	return c.Travel <= cs.TapSlop
}

// pairChange returns the distance ratio and signed angle change (degrees)
// between the vector a0→b0 and a1→b1. Degenerate pairs are neutral.
func pairChange(a0, b0, a1, b1 Vec2) (ratio, angle float64) {
	v0 := b0.Sub(a0)
	v1 := b1.Sub(a1)
	d0, d1 := v0.Len(), v1.Len()
	if d0 < pairEpsilon || d1 < pairEpsilon {
		return 1, 0
	}
	ratio = d1 / d0
	angle = (math.Atan2(v1.Y, v1.X) - math.Atan2(v0.Y, v0.X)) * 180 / math.Pi
	return ratio, normalizeDegrees(angle)
}

// normalizeDegrees maps an angle into (-180, 180].
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// Count returns the number of active contacts.
func (cs *ContactSet) Count() int { return len(cs.current) }

// Contacts returns a copy of the active contacts in arrival order.
func (cs *ContactSet) Contacts() []Contact {
	out := make([]Contact, 0, len(cs.current))
	for _, c := range cs.current {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b Contact) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

// MoveCenter is the centroid of the active contacts, or the last known
// centroid when none are active.
func (cs *ContactSet) MoveCenter() Vec2 { return cs.moveCenter }

// ActionCenter is the pivot for rotation and scaling.
func (cs *ContactSet) ActionCenter() Vec2 { return cs.actionCenter }

// MoveX is the mean horizontal displacement of contacts present in both ticks.
func (cs *ContactSet) MoveX() float64 { return cs.moveX }

// MoveY is the mean vertical displacement of contacts present in both ticks.
func (cs *ContactSet) MoveY() float64 { return cs.moveY }

// AngleChanged is the signed rotation of the reference pair in degrees.
func (cs *ContactSet) AngleChanged() float64 { return cs.angleChanged }

// DistanceChangeRatio is the reference pair's distance now over before.
func (cs *ContactSet) DistanceChangeRatio() float64 { return cs.ratio }

// Changed reports whether any contact arrived, lifted, or moved.
func (cs *ContactSet) Changed() bool { return cs.changed }

// JustTouched reports whether a new contact arrived this tick.
func (cs *ContactSet) JustTouched() bool { return cs.justTouched }

// Started reports whether contacts arrived on an element that had none.
func (cs *ContactSet) Started() bool { return cs.started }

// Lifted reports whether one or more contacts lifted this tick.
func (cs *ContactSet) Lifted() bool { return cs.lifted }

// Ended reports whether the last remaining contact lifted this tick.
func (cs *ContactSet) Ended() bool { return cs.ended }

// Tapped reports whether a lifted contact qualified as a tap.
func (cs *ContactSet) Tapped() bool { return cs.tapped }

// TapPoint is the container-space position of the most recent tap.
func (cs *ContactSet) TapPoint() Vec2 { return cs.tapPoint }

// TwoOrMoreTouching reports whether at least two contacts are active.
func (cs *ContactSet) TwoOrMoreTouching() bool { return len(cs.current) >= 2 }
