package touchframe

import "errors"

var (
	// ErrNilElement is returned when a container is built without an element.
	ErrNilElement = errors.New("touchframe: nil element")
	// ErrAlreadyRegistered is returned when a container is registered twice.
	ErrAlreadyRegistered = errors.New("touchframe: container already registered")
	// ErrDisposed is returned when a disposed container is registered.
	ErrDisposed = errors.New("touchframe: container disposed")
	// ErrRunning is returned when the smoothing scheduler is started twice.
	ErrRunning = errors.New("touchframe: scheduler already running")
	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("touchframe: engine closed")
	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("touchframe: invalid config")
)
