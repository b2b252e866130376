package emitter

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// subscription is one registration of a listener under a pattern.
type subscription struct {
	id       string
	seq      uint64
	priority Priority
	pattern  string
	listener Listener // identity used for removal
	call     Listener // listener wrapped with middleware
}

// bucket holds the subscriptions of one pattern in registration order.
type bucket struct {
	pattern pattern
	subs    []*subscription
}

// Subscription describes a registration returned by Manager.Subscriptions.
type Subscription struct {
	ID       string
	Pattern  string
	Priority Priority
	Listener Listener
}

// Manager is a synchronous event registry.
// Listeners are registered against dot-separated patterns and called in
// descending priority order on the goroutine that triggers the event.
//
// A Manager is safe for concurrent use. The registry lock is not held while
// listeners run, so a listener may register, remove or trigger on the same
// manager. A trigger iterates over a snapshot taken before the first call;
// changes made by listeners apply to later triggers.
type Manager struct {
	name           string
	logger         *slog.Logger
	tracingEnabled bool
	tracer         trace.Tracer
	metrics        *metrics
	middleware     []Middleware

	mu      sync.RWMutex
	buckets map[string]*bucket
	seq     uint64
}

// New creates an empty manager.
func New(opts ...Option) *Manager {
	o := newManagerOptions(opts...)

	m := &Manager{
		name:           o.name,
		logger:         o.logger.With("component", "emitter>"+o.name),
		tracingEnabled: o.tracingEnabled,
		metrics:        newMetrics(o.name, o.metricsEnabled),
		buckets:        make(map[string]*bucket),
	}
	if o.tracingEnabled {
		m.tracer = otel.Tracer(o.name)
	}
	if o.recoveryEnabled {
		m.middleware = append(m.middleware, Recovery(m.logger))
	}
	m.middleware = append(m.middleware, o.middleware...)
	return m
}

// Name returns the manager name
func (m *Manager) Name() string {
	return m.name
}

// Logger returns the manager logger
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// On registers a listener for an event name or wildcard pattern.
//
//	m.On("item.save", l)                                 // exact
//	m.On("item.*", l, emitter.WithPriority(emitter.High)) // any single segment
func (m *Manager) On(name string, l Listener, opts ...ListenOption) error {
	return m.OnAll([]string{name}, l, opts...)
}

// OnAll registers the same listener under several names.
// Every name is validated before anything is registered.
func (m *Manager) OnAll(names []string, l Listener, opts ...ListenOption) error {
	if l == nil {
		return ErrNilListener
	}
	patterns, err := cleanNames(names)
	if err != nil {
		return err
	}
	o := newListenOptions(opts...)
	for _, p := range patterns {
		m.add(p, l, o)
	}
	return nil
}

// Once registers a listener that is removed before its first call.
//
// The registry stores an adapter, not l itself, so RemoveListener(name, l)
// will not find it. Use RemoveListeners to clear it before it fires.
func (m *Manager) Once(name string, l Listener, opts ...ListenOption) error {
	if l == nil {
		return ErrNilListener
	}
	p, err := CleanName(name)
	if err != nil {
		return err
	}
	m.add(p, &onceListener{manager: m, pattern: p, target: l}, newListenOptions(opts...))
	return nil
}

func (m *Manager) add(p string, l Listener, o *listenOptions) {
	mw := make([]Middleware, 0, len(m.middleware)+len(o.middleware))
	mw = append(mw, m.middleware...)
	mw = append(mw, o.middleware...)

	sub := &subscription{
		id:       NewID(),
		priority: o.priority,
		pattern:  p,
		listener: l,
		call:     chain(l, mw),
	}

	m.mu.Lock()
	m.seq++
	sub.seq = m.seq
	b, ok := m.buckets[p]
	if !ok {
		b = &bucket{pattern: newPattern(p)}
		m.buckets[p] = b
	}
	b.subs = append(b.subs, sub)
	m.mu.Unlock()

	m.metrics.recordSubscribed(p, 1)
	m.logger.Debug("registered listener",
		"pattern", p,
		"priority", int(o.priority),
		"subscription", sub.id)
}

// match returns a priority ordered snapshot of the subscriptions whose
// pattern qualifies for the normalized name.
func (m *Manager) match(name string) []*subscription {
	segments := strings.Split(name, Separator)

	m.mu.RLock()
	var result []*subscription
	for _, b := range m.buckets {
		if b.pattern.matches(name, segments) {
			result = append(result, b.subs...)
		}
	}
	m.mu.RUnlock()

	// Higher priority first, registration order on ties.
	slices.SortStableFunc(result, func(a, b *subscription) int {
		if c := cmp.Compare(b.priority, a.priority); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return result
}

// Listeners returns the listeners that a trigger of name would call, in order.
// An empty slice is returned when nothing matches.
func (m *Manager) Listeners(name string) ([]Listener, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	subs := m.match(cleaned)
	result := make([]Listener, len(subs))
	for i, sub := range subs {
		result[i] = sub.listener
	}
	return result, nil
}

// Subscriptions is like Listeners but includes registration metadata.
func (m *Manager) Subscriptions(name string) ([]Subscription, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	subs := m.match(cleaned)
	result := make([]Subscription, len(subs))
	for i, sub := range subs {
		result[i] = Subscription{
			ID:       sub.id,
			Pattern:  sub.pattern,
			Priority: sub.priority,
			Listener: sub.listener,
		}
	}
	return result, nil
}

// Trigger calls every listener matching name with args followed by the
// normalized name, and returns the number of listeners that completed.
//
// A listener returning an error wrapping ErrStop halts dispatch; the
// stopping listener is not counted and no error is returned. Any other
// listener error halts dispatch and is returned as a *ListenerError.
func (m *Manager) Trigger(ctx context.Context, name string, args ...any) (int, error) {
	return m.TriggerWith(ctx, name, args, nil)
}

// TriggerWith is like Trigger and consults cont between listener calls.
// When cont returns false dispatch ends without error and the listeners
// called so far are counted. cont is never called before the first or
// after the last listener.
func (m *Manager) TriggerWith(ctx context.Context, name string, args []any, cont ContinueFunc) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cleaned, err := CleanName(name)
	if err != nil {
		return 0, err
	}

	subs := m.match(cleaned)
	callArgs := make(Args, 0, len(args)+1)
	callArgs = append(callArgs, args...)
	callArgs = append(callArgs, cleaned)

	start := time.Now()
	var span trace.Span
	if m.tracingEnabled {
		ctx, span = m.tracer.Start(ctx, cleaned+".trigger",
			trace.WithAttributes(
				attribute.String(spanKeyEventName, cleaned),
				attribute.String(spanKeyEventManager, m.name),
				attribute.Int(spanKeyEventListeners, len(subs))),
			trace.WithSpanKind(trace.SpanKindInternal))
		defer span.End()
	}

	executed, stopped, err := m.dispatch(ctx, cleaned, subs, callArgs, cont)

	m.metrics.recordTrigger(ctx, cleaned, executed, stopped, err != nil, time.Since(start))
	if span != nil {
		span.SetAttributes(
			attribute.Int(spanKeyEventExecuted, executed),
			attribute.Bool(spanKeyEventStopped, stopped))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	return executed, err
}

// dispatch runs the snapshot in order.
func (m *Manager) dispatch(ctx context.Context, name string, subs []*subscription, args Args, cont ContinueFunc) (executed int, stopped bool, err error) {
	last := len(subs) - 1
	for i, sub := range subs {
		callErr := sub.call.Handle(contextWithDispatch(ctx, name, sub, m), args)
		switch {
		case callErr == nil:
			executed++
		case errors.Is(callErr, errSkip):
		case IsStop(callErr):
			m.logger.Debug("propagation stopped by listener",
				"event", name,
				"pattern", sub.pattern,
				"subscription", sub.id,
				"reason", callErr)
			return executed, true, nil
		default:
			m.logger.Warn("listener failed",
				"event", name,
				"pattern", sub.pattern,
				"subscription", sub.id,
				"error", callErr)
			return executed, false, &ListenerError{
				Event:          name,
				Pattern:        sub.pattern,
				SubscriptionID: sub.id,
				Err:            callErr,
			}
		}

		if cont != nil && i < last && !cont() {
			return executed, true, nil
		}
	}
	return executed, false, nil
}

// RemoveListener removes the first registration of l under the exact
// pattern name. Wildcards are not expanded. Returns false if nothing was
// removed.
func (m *Manager) RemoveListener(name string, l Listener) (bool, error) {
	p, err := CleanName(name)
	if err != nil {
		return false, err
	}
	return m.remove(p, l), nil
}

// remove deletes the first subscription of l under pattern p.
// A bucket left empty is deleted.
func (m *Manager) remove(p string, l Listener) bool {
	m.mu.Lock()
	b, ok := m.buckets[p]
	if !ok {
		m.mu.Unlock()
		return false
	}
	idx := slices.IndexFunc(b.subs, func(sub *subscription) bool {
		return sameListener(sub.listener, l)
	})
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	id := b.subs[idx].id
	b.subs = slices.Delete(b.subs, idx, idx+1)
	if len(b.subs) == 0 {
		delete(m.buckets, p)
	}
	m.mu.Unlock()

	m.metrics.recordRemoved(p, 1)
	m.logger.Debug("removed listener", "pattern", p, "subscription", id)
	return true
}

// RemoveListeners deletes every listener registered under the given exact
// patterns. Without names the whole registry is cleared.
func (m *Manager) RemoveListeners(names ...string) error {
	if len(names) == 0 {
		m.mu.Lock()
		old := m.buckets
		m.buckets = make(map[string]*bucket)
		m.mu.Unlock()

		for p, b := range old {
			m.metrics.recordRemoved(p, len(b.subs))
		}
		m.logger.Debug("cleared registry", "patterns", len(old))
		return nil
	}

	patterns, err := cleanNames(names)
	if err != nil {
		return err
	}
	m.mu.Lock()
	removed := make(map[string]int, len(patterns))
	for _, p := range patterns {
		if b, ok := m.buckets[p]; ok {
			removed[p] = len(b.subs)
			delete(m.buckets, p)
		}
	}
	m.mu.Unlock()

	for p, n := range removed {
		m.metrics.recordRemoved(p, n)
		m.logger.Debug("removed listeners", "pattern", p, "count", n)
	}
	return nil
}

// Count returns the number of listeners registered under the exact pattern.
func (m *Manager) Count(name string) (int, error) {
	p, err := CleanName(name)
	if err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.buckets[p]; ok {
		return len(b.subs), nil
	}
	return 0, nil
}

// Summary returns the listener count of every registered pattern.
// Use Patterns for the keys in ascending order.
func (m *Manager) Summary() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]int, len(m.buckets))
	for p, b := range m.buckets {
		result[p] = len(b.subs)
	}
	return result
}

// Patterns returns the registered patterns in ascending lexicographic order.
func (m *Manager) Patterns() []string {
	m.mu.RLock()
	result := make([]string, 0, len(m.buckets))
	for p := range m.buckets {
		result = append(result, p)
	}
	m.mu.RUnlock()
	slices.Sort(result)
	return result
}

// cleanNames normalizes every name, failing on the first invalid one.
func cleanNames(names []string) ([]string, error) {
	result := make([]string, 0, len(names))
	for _, name := range names {
		p, err := CleanName(name)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}
