package emitter

import "log/slog"

// DefaultName is the manager name used for logging, tracing and metrics
// when WithName is not given.
const DefaultName = "emitter"

// managerOptions holds configuration for a manager (unexported)
type managerOptions struct {
	name            string
	logger          *slog.Logger
	tracingEnabled  bool
	metricsEnabled  bool
	recoveryEnabled bool
	middleware      []Middleware
}

// Option option function for manager configuration
type Option func(*managerOptions)

// WithName sets the manager name used as tracer/meter scope and log component
func WithName(name string) Option {
	return func(o *managerOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets a custom logger for the manager
func WithLogger(l *slog.Logger) Option {
	return func(o *managerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracing enables/disables a span per trigger
func WithTracing(enabled bool) Option {
	return func(o *managerOptions) {
		o.tracingEnabled = enabled
	}
}

// WithMetrics enables/disables OpenTelemetry metrics
func WithMetrics(enabled bool) Option {
	return func(o *managerOptions) {
		o.metricsEnabled = enabled
	}
}

// WithRecovery enables/disables panic recovery in listeners.
// A recovered panic is returned from Trigger as a *PanicError.
// Recovery should always be enabled, can be disabled for testing.
func WithRecovery(enabled bool) Option {
	return func(o *managerOptions) {
		o.recoveryEnabled = enabled
	}
}

// WithMiddleware adds middleware applied to every listener call.
// The first middleware is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *managerOptions) {
		o.middleware = append(o.middleware, mw...)
	}
}

// newManagerOptions creates options with defaults and applies provided options
func newManagerOptions(opts ...Option) *managerOptions {
	o := &managerOptions{
		name:            DefaultName,
		logger:          slog.Default(),
		tracingEnabled:  true,
		metricsEnabled:  true,
		recoveryEnabled: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// listenOptions holds per-registration configuration
type listenOptions struct {
	priority   Priority
	middleware []Middleware
}

// ListenOption configures a single registration
type ListenOption func(*listenOptions)

// WithPriority sets the listener priority. Default is Mid.
func WithPriority(p Priority) ListenOption {
	return func(o *listenOptions) {
		o.priority = p
	}
}

// WithListenerMiddleware wraps only this registration's listener.
func WithListenerMiddleware(mw ...Middleware) ListenOption {
	return func(o *listenOptions) {
		o.middleware = append(o.middleware, mw...)
	}
}

func newListenOptions(opts ...ListenOption) *listenOptions {
	o := &listenOptions{priority: Mid}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
