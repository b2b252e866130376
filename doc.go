// Package emitter provides a synchronous, in-process event manager with
// wildcard event names and priority ordered listeners.
//
// Architecture:
// - A Manager maps event name patterns to ordered lists of listeners
// - Trigger resolves every matching pattern, sorts by priority and calls the listeners in place
// - Listeners can halt propagation, callers can stop dispatch between listeners
// - Manager owns the ambient infrastructure (logging, tracing, metrics, recovery, middleware)
//
// Basic example:
//
//	m := emitter.New(emitter.WithName("my-app"))
//
//	save := emitter.Func(func(ctx context.Context, args emitter.Args) error {
//	    fmt.Printf("saving %v (event %s)\n", args.Get(0), args.Name())
//	    return nil
//	})
//	if err := m.On("item.save", save, emitter.WithPriority(emitter.High)); err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := m.Trigger(ctx, "item.save", item)
//	// n is the number of listeners that completed
//
// Event Names:
// Names are lower-cased and dot-separated; empty segments are dropped, so
// "Item..Save." and "item.save" are the same event. A segment "*" in a
// registered pattern matches exactly one segment of a triggered name:
//
//	item.*        - matches item.save, item.load; not item or item.save.after
//	*.save.*      - matches item.save.before, tag.save.after
//	*             - matches any single segment name
//
// Triggered names are never treated as patterns. Triggering "*" is allowed
// and only reaches single segment patterns.
//
// Priority:
// Higher values run first. Equal priorities run in registration order.
// Lowest (0), Low (50), Mid (100, default), High (500), Highest (1000) are
// conventions; any int, including negative values, is accepted.
//
// Arguments:
// Listeners receive the trigger arguments followed by the normalized event
// name. Use Args.Payload and Args.Name to separate them.
//
// Propagation:
//   - return nil: the call is counted and dispatch continues
//   - return emitter.Stop(reason): dispatch halts, Trigger returns the count so far without error
//   - return any other error: dispatch halts, Trigger returns the count so far and a *ListenerError
//   - TriggerWith continue predicate returns false: dispatch halts normally
//
// Manager Options:
//   - WithName: name used for logs, tracer and meter. Default is "emitter".
//   - WithLogger: set the slog logger. Default is slog.Default().
//   - WithTracing: enable/disable OpenTelemetry tracing. Default is true.
//   - WithMetrics: enable/disable OpenTelemetry metrics. Default is true.
//   - WithRecovery: convert listener panics to *PanicError. Default is true.
//   - WithMiddleware: wrap every listener call.
//
// Listen Options:
//   - WithPriority: set listener priority. Default is Mid.
//   - WithListenerMiddleware: wrap a single registration.
//
// Default Manager:
// SetDefault and Default give access to one process wide manager for code
// that cannot receive a *Manager explicitly. The slot starts empty.
package emitter
