package touchframe

// Router converts gesture outcomes into an element's native actions. One
// router is chosen per element at registration; see KindOf.
type Router interface {
	TouchDown(ev GestureEvent)
	TouchUp(ev GestureEvent)
	Tap(ev GestureEvent)
	Drag(ev GestureEvent)
	Slide(ev GestureEvent)
	Scroll(ev GestureEvent)
}

// KindOf inspects el's capabilities once and returns its ElementKind.
// When an element implements several capability interfaces the first match
// in this order wins: text input, toggle, slider, list, button.
func KindOf(el Element) ElementKind {
	switch el.(type) {
	case TextInput:
		return KindTextInput
	case Toggler:
		return KindToggle
	case ValueSetter:
		return KindSlider
	case Selector:
		return KindList
	case Activator:
		return KindButton
	default:
		return KindGeneric
	}
}

// routerTable builds the router for each kind.
var routerTable = [numElementKinds]func(el Element) Router{
	KindGeneric: func(el Element) Router { return newGenericRouter(el) },
	KindButton: func(el Element) Router {
		return &buttonRouter{genericRouter: newGenericRouter(el), act: el.(Activator)}
	},
	KindToggle: func(el Element) Router {
		return &toggleRouter{genericRouter: newGenericRouter(el), tog: el.(Toggler)}
	},
	KindTextInput: func(el Element) Router {
		return &textInputRouter{genericRouter: newGenericRouter(el), in: el.(TextInput)}
	},
	KindSlider: func(el Element) Router {
		return &sliderRouter{genericRouter: newGenericRouter(el), vs: el.(ValueSetter)}
	},
	KindList: func(el Element) Router {
		return &listRouter{genericRouter: newGenericRouter(el), sel: el.(Selector)}
	},
}

// NewRouter returns the router for kind. Unknown kinds fall back to generic.
// el must implement the capability interface that kind implies.
func NewRouter(kind ElementKind, el Element) Router {
	if kind >= numElementKinds {
		kind = KindGeneric
	}
	return routerTable[kind](el)
}

// route delivers ev to the router method for its type.
func route(r Router, ev GestureEvent) {
	switch ev.Type {
	case EventTouchDown:
		r.TouchDown(ev)
	case EventTouchUp:
		r.TouchUp(ev)
	case EventTap:
		r.Tap(ev)
	case EventDrag:
		r.Drag(ev)
	case EventSlide:
		r.Slide(ev)
	case EventScroll:
		r.Scroll(ev)
	}
}

// --- Generic ---

type genericRouter struct {
	el     Element
	recv   GestureReceiver
	scroll ScrollContainer
}

func newGenericRouter(el Element) *genericRouter {
	r := &genericRouter{el: el}
	r.recv, _ = el.(GestureReceiver)
	r.scroll, _ = el.(ScrollContainer)
	return r
}

func (r *genericRouter) raise(ev GestureEvent) {
	if r.recv != nil {
		r.recv.ReceiveGesture(ev)
	}
}

func (r *genericRouter) TouchDown(ev GestureEvent) { r.raise(ev) }
func (r *genericRouter) TouchUp(ev GestureEvent)   { r.raise(ev) }
func (r *genericRouter) Tap(ev GestureEvent)       { r.raise(ev) }
func (r *genericRouter) Drag(ev GestureEvent)      { r.raise(ev) }
func (r *genericRouter) Slide(ev GestureEvent)     { r.raise(ev) }

// Scroll moves the embedded region by pixels. Content follows the finger, so
// the offset moves opposite to the delta.
func (r *genericRouter) Scroll(ev GestureEvent) {
	if r.scroll != nil {
		if region := r.scroll.ScrollRegion(); region != nil {
			off := region.ScrollOffset()
			region.SetScrollOffset(Vec2{off.X - ev.DeltaX, off.Y - ev.DeltaY})
		}
	}
	r.raise(ev)
}

// --- Specializations ---

type buttonRouter struct {
	*genericRouter
	act Activator
}

func (r *buttonRouter) Tap(ev GestureEvent) {
	r.act.Activate()
	r.genericRouter.Tap(ev)
}

type toggleRouter struct {
	*genericRouter
	tog Toggler
}

func (r *toggleRouter) Tap(ev GestureEvent) {
	r.tog.Toggle()
	r.genericRouter.Tap(ev)
}

type textInputRouter struct {
	*genericRouter
	in TextInput
}

func (r *textInputRouter) Tap(ev GestureEvent) {
	r.in.Focus(ev.Point)
	r.genericRouter.Tap(ev)
}

type sliderRouter struct {
	*genericRouter
	vs ValueSetter
}

// Tap jumps to the value under the touch point.
func (r *sliderRouter) Tap(ev GestureEvent) {
	w, _ := r.el.Size()
	if w > 0 {
		lo, hi := r.vs.Range()
		r.vs.SetValue(clampRange(lo+(ev.Point.X/w)*(hi-lo), lo, hi))
	}
	r.genericRouter.Tap(ev)
}

// Slide moves the value by the horizontal local delta.
func (r *sliderRouter) Slide(ev GestureEvent) {
	w, _ := r.el.Size()
	if w > 0 {
		lo, hi := r.vs.Range()
		r.vs.SetValue(clampRange(r.vs.Value()+ev.DeltaX/w*(hi-lo), lo, hi))
	}
	r.genericRouter.Slide(ev)
}

type listRouter struct {
	*genericRouter
	sel Selector
}

func (r *listRouter) Tap(ev GestureEvent) {
	r.sel.SelectAt(ev.Point)
	r.genericRouter.Tap(ev)
}

func clampRange(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return max(lo, min(v, hi))
}
