// Package ebitentouch adapts Ebitengine input and drawing to touchframe.
//
// A [Poller] turns the current touches (and optionally the left mouse
// button) into contact reports for [touchframe.Engine.FeedScreen], and
// [GeoM] converts a container transform for DrawImageOptions.
package ebitentouch

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/touchframe"
)

// MouseContactID is the contact ID reported for the left mouse button. Touch
// IDs from Ebitengine are never negative.
const MouseContactID = -1

// Touch is one active touch point in screen pixels.
type Touch struct {
	ID   ebiten.TouchID
	X, Y int
}

// Poller samples Ebitengine input once per Update.
type Poller struct {
	// Mouse reports the left mouse button as contact MouseContactID.
	Mouse bool

	ids     []ebiten.TouchID
	touches []Touch
	reports []touchframe.ContactReport
}

// NewPoller creates a poller. With mouse set, the left button acts as one
// more contact so desktop builds can be driven without a touchscreen.
func NewPoller(mouse bool) *Poller {
	return &Poller{Mouse: mouse}
}

// Poll returns the contacts that are down this frame. The slice is reused by
// the next call.
func (p *Poller) Poll() []touchframe.ContactReport {
	p.ids = ebiten.AppendTouchIDs(p.ids[:0])
	p.touches = p.touches[:0]
	for _, id := range p.ids {
		x, y := ebiten.TouchPosition(id)
		p.touches = append(p.touches, Touch{ID: id, X: x, Y: y})
	}

	var mouse *touchframe.Vec2
	if p.Mouse && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		mouse = &touchframe.Vec2{X: float64(mx), Y: float64(my)}
	}
	p.reports = AppendReports(p.reports[:0], p.touches, mouse)
	return p.reports
}

// AppendReports appends a report per touch, and one for the mouse when
// mouse is non-nil, to dst.
func AppendReports(dst []touchframe.ContactReport, touches []Touch, mouse *touchframe.Vec2) []touchframe.ContactReport {
	for _, t := range touches {
		dst = append(dst, touchframe.ContactReport{
			ID:  int(t.ID),
			Pos: touchframe.Vec2{X: float64(t.X), Y: float64(t.Y)},
		})
	}
	if mouse != nil {
		dst = append(dst, touchframe.ContactReport{ID: MouseContactID, Pos: *mouse})
	}
	return dst
}

// GeoM converts an element transform into an Ebitengine GeoM.
func GeoM(m touchframe.Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
