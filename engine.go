package touchframe

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/tanema/gween/ease"
)

// EventSink receives every gesture notification raised by registered
// containers, for example to forward it into an ECS world.
type EventSink interface {
	EmitGesture(ev GestureEvent)
}

// Engine owns the registry of active containers, drives the smoothing tick,
// and marshals composed transforms to the UI-owning context.
//
// Three contexts use an engine: the input context calls Feed or FeedScreen,
// the scheduler goroutine calls Tick, and the UI context calls Update. Only
// Update writes element transforms.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	dispatch *Dispatcher
	sched    *Scheduler
	stats    tickStats

	mu         sync.RWMutex
	containers []*Container // copy-on-write, registration order
	closed     bool

	screenMu sync.Mutex
	capture  map[int]*Container // contact ID -> container; nil for a miss
	fed      map[*Container]bool

	hmu      sync.RWMutex
	handlers handlerRegistry
	sink     EventSink

	tmu    sync.Mutex
	tweens map[*Container]*PoseTween
}

// NewEngine creates an engine. The scheduler is created stopped; call Start
// to run smoothing in the background, or call Tick directly. A nil logger
// discards output.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = discardLogger()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		dispatch: NewDispatcher(),
		capture:  make(map[int]*Container),
		fed:      make(map[*Container]bool),
		tweens:   make(map[*Container]*PoseTween),
	}
	e.sched = NewScheduler(cfg.TickInterval, func() { e.Tick() }, logger)
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Scheduler returns the smoothing scheduler.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// Register adds c to the active set. Registering a container twice returns
// ErrAlreadyRegistered; a disposed container returns ErrDisposed.
func (e *Engine) Register(c *Container) error {
	if c == nil {
		return ErrNilElement
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if err := c.attach(e); err != nil {
		return fmt.Errorf("register container %d: %w", c.id, err)
	}
	e.containers = append(slices.Clip(e.containers), c)
	e.logger.Debug("container registered",
		"id", c.id, "kind", c.kind, "smooth", c.smooth, "gestures", c.policy.Gestures.String())
	return nil
}

// Add builds a container for el from the named policy preset, applies the
// configured extents and registers it.
func (e *Engine) Add(el Element, preset string, bounds Rect, smooth bool) (*Container, error) {
	p, err := e.cfg.Policy(preset)
	if err != nil {
		return nil, err
	}
	var c *Container
	if smooth {
		c, err = NewSmoothContainer(el, p, bounds, e.cfg.SmoothParams())
	} else {
		c, err = NewDirectContainer(el, p, bounds)
	}
	if err != nil {
		return nil, err
	}
	if e.cfg.MaxExtent > 0 {
		c.SetExtents(e.cfg.MinExtent, e.cfg.MaxExtent)
	}
	if err := e.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Unregister removes c and disposes it. Once Unregister returns, c makes no
// further posts and pending posts are dropped. Unregistering twice, or a
// container this engine does not own, is a no-op.
func (e *Engine) Unregister(c *Container) {
	if c == nil || !c.detach(e) {
		return
	}
	e.mu.Lock()
	e.containers = slices.DeleteFunc(slices.Clone(e.containers), func(o *Container) bool { return o == c })
	e.mu.Unlock()

	e.dispatch.Forget(c)
	e.tmu.Lock()
	delete(e.tweens, c)
	e.tmu.Unlock()
	e.logger.Debug("container unregistered", "id", c.id)
}

// Containers returns the registered containers in registration order.
func (e *Engine) Containers() []*Container {
	return slices.Clone(e.snapshot())
}

func (e *Engine) snapshot() []*Container {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.containers
}

// Start runs Tick on the scheduler until ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return e.sched.Start(ctx)
}

// Stop halts the scheduler and waits for the running tick to finish.
func (e *Engine) Stop() { e.sched.Stop() }

// Close stops the scheduler and disposes every container. It is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	cs := e.containers
	e.containers = nil
	e.mu.Unlock()

	e.sched.Stop()
	for _, c := range cs {
		c.detach(e)
		e.dispatch.Forget(c)
	}
	e.tmu.Lock()
	clear(e.tweens)
	e.tmu.Unlock()
	e.logger.Info("engine closed", "containers", len(cs))
	return nil
}

// Tick steps the filter bank of every smooth container once and returns the
// number of transforms posted.
func (e *Engine) Tick() int {
	start := time.Now()
	posted := 0
	for _, c := range e.snapshot() {
		if c.smooth && c.tick() {
			posted++
		}
	}
	if e.cfg.Debug {
		now := time.Now()
		if r, ok := e.stats.record(now, now.Sub(start), posted); ok {
			r.log(e.logger)
		}
	}
	return posted
}

// Update runs on the UI-owning context. It advances tweens by dt, then
// applies the latest posted transform of each container to its element. It
// returns the number of transforms applied.
func (e *Engine) Update(dt time.Duration) int {
	e.tmu.Lock()
	tweens := slices.Collect(maps.Values(e.tweens))
	e.tmu.Unlock()

	sec := float32(dt.Seconds())
	for _, t := range tweens {
		t.Update(sec)
		if t.Done() {
			e.tmu.Lock()
			if e.tweens[t.target] == t {
				delete(e.tweens, t.target)
			}
			e.tmu.Unlock()
		}
	}

	applied := 0
	e.dispatch.Drain(func(c *Container, m Affine) {
		if c.Disposed() || elementDisposed(c.el) {
			return
		}
		c.el.SetTransform(m)
		applied++
	})
	return applied
}

// Pending returns the number of containers with a transform waiting for
// Update.
func (e *Engine) Pending() int { return e.dispatch.Len() }

// Animate tweens c to pose over seconds using fn, replacing any tween already
// running on c. The tween is cancelled when c is touched.
func (e *Engine) Animate(c *Container, to Pose, seconds float32, fn ease.TweenFunc) *PoseTween {
	t := TweenPose(c, to, seconds, fn)
	e.tmu.Lock()
	if old := e.tweens[c]; old != nil {
		old.Cancel()
	}
	e.tweens[c] = t
	e.tmu.Unlock()
	return t
}

func (e *Engine) cancelTween(c *Container) {
	e.tmu.Lock()
	if t := e.tweens[c]; t != nil {
		t.Cancel()
		delete(e.tweens, c)
	}
	e.tmu.Unlock()
}

// FeedScreen routes one tick of screen-space reports. A new contact is
// captured by the topmost container whose element it hits, and stays with
// that container until it lifts; contacts that hit nothing are ignored for
// their lifetime. Containers share the screen coordinate system.
func (e *Engine) FeedScreen(now time.Duration, reports []ContactReport) {
	e.screenMu.Lock()
	defer e.screenMu.Unlock()

	cs := e.snapshot()
	groups := make(map[*Container][]ContactReport)
	seen := make(map[int]bool, len(reports))
	for _, r := range reports {
		seen[r.ID] = true
		c, known := e.capture[r.ID]
		if !known {
			c = hitTest(cs, r.Pos)
			e.capture[r.ID] = c
		}
		if c != nil {
			groups[c] = append(groups[c], r)
		}
	}
	for id := range e.capture {
		if !seen[id] {
			delete(e.capture, id)
		}
	}

	for _, c := range cs {
		rs, ok := groups[c]
		if !ok && !e.fed[c] {
			continue
		}
		c.Feed(now, rs)
		if ok {
			e.fed[c] = true
		} else {
			delete(e.fed, c)
		}
	}
	for c := range e.fed {
		if c.Disposed() {
			delete(e.fed, c)
		}
	}
}

// hitTest returns the topmost container whose element contains pos.
func hitTest(cs []*Container, pos Vec2) *Container {
	for i := len(cs) - 1; i >= 0; i-- {
		c := cs[i]
		if c.Disposed() || elementDisposed(c.el) {
			continue
		}
		local := c.Transform().Invert().Apply(pos)
		if elementContains(c.el, local.X, local.Y) {
			return c
		}
	}
	return nil
}

// HitTest returns the topmost registered container under pos, or nil.
func (e *Engine) HitTest(pos Vec2) *Container {
	return hitTest(e.snapshot(), pos)
}

// SetEventSink sets the sink that receives every notification. Pass nil to
// disable.
func (e *Engine) SetEventSink(sink EventSink) {
	e.hmu.Lock()
	e.sink = sink
	e.hmu.Unlock()
}

// post implements host.
func (e *Engine) post(c *Container, m Affine) {
	e.dispatch.Post(c, m)
}

// deliver implements host. It runs on the input context after the container
// lock is released.
func (e *Engine) deliver(c *Container, evs []GestureEvent) {
	for _, ev := range evs {
		if ev.Type == EventTouchDown {
			e.cancelTween(c)
		}
		e.hmu.RLock()
		hs := e.handlers.byType[ev.Type]
		sink := e.sink
		e.hmu.RUnlock()
		for _, h := range hs {
			h.fn(ev)
		}
		if sink != nil {
			sink.EmitGesture(ev)
		}
	}
}

// --- Engine-level handlers ---

type gestureHandler struct {
	id uint32
	fn func(GestureEvent)
}

type handlerRegistry struct {
	byType [numEventTypes][]gestureHandler
	nextID uint32
}

// CallbackHandle allows removing a registered engine-level callback.
type CallbackHandle struct {
	id     uint32
	engine *Engine
	event  EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.engine == nil {
		return
	}
	e := h.engine
	e.hmu.Lock()
	defer e.hmu.Unlock()
	e.handlers.byType[h.event] = slices.DeleteFunc(slices.Clone(e.handlers.byType[h.event]),
		func(g gestureHandler) bool { return g.id == h.id })
}

func (e *Engine) on(t EventType, fn func(GestureEvent)) CallbackHandle {
	e.hmu.Lock()
	defer e.hmu.Unlock()
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.byType[t] = append(e.handlers.byType[t], gestureHandler{id: id, fn: fn})
	return CallbackHandle{id: id, engine: e, event: t}
}

// OnTouchDown registers a callback for touch-down notifications from any
// container.
func (e *Engine) OnTouchDown(fn func(GestureEvent)) CallbackHandle { return e.on(EventTouchDown, fn) }

// OnTouchUp registers a callback for touch-up notifications.
func (e *Engine) OnTouchUp(fn func(GestureEvent)) CallbackHandle { return e.on(EventTouchUp, fn) }

// OnTap registers a callback for tap notifications.
func (e *Engine) OnTap(fn func(GestureEvent)) CallbackHandle { return e.on(EventTap, fn) }

// OnDrag registers a callback for drag notifications.
func (e *Engine) OnDrag(fn func(GestureEvent)) CallbackHandle { return e.on(EventDrag, fn) }

// OnSlide registers a callback for slide notifications.
func (e *Engine) OnSlide(fn func(GestureEvent)) CallbackHandle { return e.on(EventSlide, fn) }

// OnScroll registers a callback for scroll notifications.
func (e *Engine) OnScroll(fn func(GestureEvent)) CallbackHandle { return e.on(EventScroll, fn) }
