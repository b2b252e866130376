package emitter

import (
	"errors"
	"fmt"
)

// Dispatch control and validation errors.
// Use errors.Is() to check for these errors as they may be wrapped with additional context.
//
// Example usage:
//
//	m.On("order.save", emitter.Func(func(ctx context.Context, args emitter.Args) error {
//	    if !valid(args.Get(0)) {
//	        // Halt propagation, remaining listeners are not called
//	        return emitter.Stop(errors.New("invalid order"))
//	    }
//	    return nil
//	}))
var (
	// ErrStop halts propagation of the current trigger. It is consumed by the
	// dispatch loop and never returned from Trigger.
	ErrStop = errors.New("stop: halt event propagation")

	// ErrInvalidName is wrapped by NameError when an event name normalizes to empty.
	ErrInvalidName = errors.New("event name is empty")

	// ErrNilListener is returned when a nil listener is registered.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrListenerPanic is matched by PanicError.
	ErrListenerPanic = errors.New("listener panicked")

	// errSkip marks a listener call that did not happen, for example a once
	// listener that already fired. Skipped calls are not counted.
	errSkip = errors.New("skip: listener not invoked")
)

// Stop wraps an error to indicate that propagation should halt.
// The reason is preserved for logging but Trigger returns without error.
func Stop(reason error) error {
	if reason == nil {
		return ErrStop
	}
	return fmt.Errorf("%w: %v", ErrStop, reason)
}

// IsStop checks if an error is a stop signal.
func IsStop(err error) bool {
	return errors.Is(err, ErrStop)
}

// NameError indicates an event name that normalizes to the empty string.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid event name %q: %v", e.Name, ErrInvalidName)
}

func (e *NameError) Unwrap() error {
	return ErrInvalidName
}

// IsNameError checks if an error indicates an invalid event name.
func IsNameError(err error) bool {
	var nameErr *NameError
	return errors.As(err, &nameErr)
}

// ListenerError wraps an error returned by a listener with the dispatch context.
type ListenerError struct {
	// Event is the normalized name that was triggered.
	Event string

	// Pattern is the pattern the listener was registered under.
	Pattern string

	// SubscriptionID identifies the failing registration.
	SubscriptionID string

	// Err is the underlying error.
	Err error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s on %q (event %q): %v", e.SubscriptionID, e.Pattern, e.Event, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered panic value as an error.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("listener panic: %v", e.Value)
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
