// Package touchframe turns raw multi-touch contact reports into smoothed
// transforms and high-level gesture notifications for on-screen elements.
//
// Each interactive element is wrapped in a [Container] that tracks its
// contacts, applies a [Policy] of enabled gestures, and composes translate,
// rotate and scale into the element's [Affine] transform. Containers come in
// two variants:
//
//   - [NewDirectContainer] applies each tick's delta immediately.
//   - [NewSmoothContainer] feeds the delta through first-order lag filters
//     stepped by a fixed-interval smoothing tick, adding flick and spin
//     inertia after release.
//
// # Quick start
//
// An [Engine] owns the registry, the smoothing [Scheduler] and the
// [Dispatcher] that hands transforms to the UI-owning goroutine:
//
//	engine := touchframe.NewEngine(touchframe.DefaultConfig(), logger)
//	defer engine.Close()
//
//	photo := touchframe.NewNode("photo", 220, 160)
//	engine.Add(photo, "photo", touchframe.Rect{Width: 960, Height: 640}, true)
//	engine.Start(ctx)
//
//	// every frame, on the UI goroutine
//	engine.FeedScreen(now, reports)
//	engine.Update(dt)
//
// [Engine.FeedScreen] hit-tests new contacts against registered elements
// (topmost first) and keeps each contact with the container it first hit
// until it lifts. Hosts that do their own routing call [Container.Feed].
//
// # Gestures
//
// Notifications (touch down/up, tap, drag, slide, scroll) are delivered to
// the element through a [Router] chosen once from its [ElementKind]: buttons
// activate, toggles flip, sliders track their value, lists select, and
// generic elements receive the raw [GestureEvent]. Engine-wide callbacks are
// registered with [Engine.OnTap] and friends, and an [EventSink] receives
// every event (see the ecs sub-package for a Donburi bridge).
//
// # Animation
//
// [Engine.Animate] tweens a container to a [Pose] with [gween] easing. A
// touch on the container cancels its tween.
//
// # Threading
//
// Feed runs on the input goroutine, the smoothing tick on the scheduler's
// goroutine, and Update on the UI goroutine. Only Update writes element
// transforms. Per-container locks serialize Feed and tick.
//
// [gween]: https://github.com/tanema/gween
package touchframe
