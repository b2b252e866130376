package emitter

import (
	"context"
	"sync"
	"time"
)

// TestManager creates a new manager configured for testing.
// Has recovery/tracing/metrics disabled for simpler testing.
//
// Example:
//
//	m := emitter.TestManager()
//	rec := emitter.NewRecorder(nil)
//	m.On("user.created", rec)
func TestManager(opts ...Option) *Manager {
	base := []Option{
		WithName("test-emitter"),
		WithRecovery(false),
		WithTracing(false),
		WithMetrics(false),
	}
	return New(append(base, opts...)...)
}

// RecordedCall represents a single call to a Recorder
type RecordedCall struct {
	Context context.Context
	Args    Args
	Time    time.Time
}

// Name returns the triggered event name of the call
func (c RecordedCall) Name() string {
	return c.Args.Name()
}

// Recorder is a listener that records every call for later assertions.
// It is comparable by pointer, so it can be removed with RemoveListener.
type Recorder struct {
	mu      sync.Mutex
	calls   []RecordedCall
	handler ListenerFunc
}

// NewRecorder creates a new recorder.
// If handler is nil, every call succeeds.
func NewRecorder(handler ListenerFunc) *Recorder {
	return &Recorder{
		calls:   make([]RecordedCall, 0),
		handler: handler,
	}
}

// Handle records the call and delegates to the handler
func (r *Recorder) Handle(ctx context.Context, args Args) error {
	r.mu.Lock()
	r.calls = append(r.calls, RecordedCall{
		Context: ctx,
		Args:    append(Args(nil), args...),
		Time:    time.Now(),
	})
	r.mu.Unlock()

	if r.handler != nil {
		return r.handler(ctx, args)
	}
	return nil
}

// Calls returns a copy of all recorded calls
func (r *Recorder) Calls() []RecordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]RecordedCall, len(r.calls))
	copy(result, r.calls)
	return result
}

// Names returns the event names of all recorded calls in call order
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]string, len(r.calls))
	for i, c := range r.calls {
		result[i] = c.Name()
	}
	return result
}

// Count returns the number of calls received
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Last returns the last recorded call, or nil if none
func (r *Recorder) Last() *RecordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.calls) == 0 {
		return nil
	}
	c := r.calls[len(r.calls)-1]
	return &c
}

// Reset clears all recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = make([]RecordedCall, 0)
	r.mu.Unlock()
}
