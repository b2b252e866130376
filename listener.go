package emitter

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sync/atomic"
)

// Priority determines execution order. Higher values run first.
// Any integer is legal; the named values are conventions.
type Priority int

const (
	Lowest  Priority = 0
	Low     Priority = 50
	Mid     Priority = 100 // default
	High    Priority = 500
	Highest Priority = 1000
)

// Args are the positional arguments a listener receives.
// The last element is always the normalized name of the triggered event.
type Args []any

// Name returns the triggered event name (the trailing argument).
func (a Args) Name() string {
	if len(a) == 0 {
		return ""
	}
	s, _ := a[len(a)-1].(string)
	return s
}

// Payload returns the caller supplied arguments without the trailing name.
func (a Args) Payload() []any {
	if len(a) == 0 {
		return nil
	}
	return a[:len(a)-1]
}

// Len returns the number of arguments including the trailing name.
func (a Args) Len() int {
	return len(a)
}

// Get returns the argument at position i, or nil when out of range.
func (a Args) Get(i int) any {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// String returns argument i formatted as a string.
func (a Args) String(i int) string {
	v := a.Get(i)
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int returns argument i as an int and whether the conversion succeeded.
// Integer values outside the int range of the platform report false.
func (a Args) Int(i int) (int, bool) {
	switch v := a.Get(i).(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		if uint64(v) > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// Bool returns argument i as a bool and whether it was one.
func (a Args) Bool(i int) (bool, bool) {
	b, ok := a.Get(i).(bool)
	return b, ok
}

// Listener handles a triggered event.
// Returning nil counts the call as successful, returning an error wrapping
// ErrStop halts propagation, any other error aborts the trigger and is
// returned to its caller.
type Listener interface {
	Handle(ctx context.Context, args Args) error
}

// ListenerFunc adapts a function to the Listener interface.
// Function values are not comparable; wrap them with Func when the listener
// has to be removed later.
type ListenerFunc func(ctx context.Context, args Args) error

// Handle calls f(ctx, args).
func (f ListenerFunc) Handle(ctx context.Context, args Args) error {
	return f(ctx, args)
}

// funcListener gives a function pointer identity so it can be removed.
type funcListener struct {
	fn ListenerFunc
}

func (l *funcListener) Handle(ctx context.Context, args Args) error {
	return l.fn(ctx, args)
}

// Func wraps fn in a listener with pointer identity.
// Keep the returned value to pass it to RemoveListener.
func Func(fn func(ctx context.Context, args Args) error) Listener {
	return &funcListener{fn: fn}
}

// ContinueFunc is consulted between listener calls.
// Returning false ends dispatch early without error.
type ContinueFunc func() bool

// sameListener compares listeners by identity.
// Listeners whose dynamic value is not comparable never match, including
// structs holding a func in an interface field.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}

// onceListener removes itself from the manager before delegating, so the
// wrapped listener runs at most once even if it fails.
type onceListener struct {
	manager *Manager
	pattern string
	target  Listener
	fired   atomic.Bool
}

func (o *onceListener) Handle(ctx context.Context, args Args) error {
	if !o.fired.CompareAndSwap(false, true) {
		return errSkip
	}
	o.manager.remove(o.pattern, o)
	return o.target.Handle(ctx, args)
}
