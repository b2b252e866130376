package emitter

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrNoDefault is returned by the package level helpers when no default
// manager has been set.
var ErrNoDefault = errors.New("default manager is not set")

var defaultManager atomic.Pointer[Manager]

// SetDefault stores m as the process wide default manager.
// Passing nil clears the slot. Independent managers can still be created
// with New; prefer passing a *Manager explicitly.
func SetDefault(m *Manager) {
	defaultManager.Store(m)
}

// Default returns the manager stored by SetDefault, or nil.
func Default() *Manager {
	return defaultManager.Load()
}

// On registers a listener on the default manager.
func On(name string, l Listener, opts ...ListenOption) error {
	m := Default()
	if m == nil {
		return ErrNoDefault
	}
	return m.On(name, l, opts...)
}

// Trigger triggers an event on the default manager.
func Trigger(ctx context.Context, name string, args ...any) (int, error) {
	m := Default()
	if m == nil {
		return 0, ErrNoDefault
	}
	return m.Trigger(ctx, name, args...)
}
