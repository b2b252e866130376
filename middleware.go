package emitter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/rbaliyan/emitter/ratelimit"
)

// Middleware wraps a listener with additional behavior.
type Middleware func(Listener) Listener

// chain applies middleware so that mw[0] is the outermost wrapper.
func chain(l Listener, mw []Middleware) Listener {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			l = mw[i](l)
		}
	}
	return l
}

// Recovery converts a listener panic into a *PanicError.
// The panic is logged with its stack; the trigger then fails with the error
// like any other listener failure.
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, args Args) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := string(debug.Stack())
					logger.Warn("listener panic recovered",
						"event", args.Name(),
						"pattern", ContextPattern(ctx),
						"error", fmt.Sprint(r),
						"stack", stack,
					)
					err = &PanicError{Value: r, Stack: stack}
				}
			}()
			return next.Handle(ctx, args)
		})
	}
}

// Logging logs each listener call at debug level with its duration and outcome.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, args Args) error {
			start := time.Now()
			err := next.Handle(ctx, args)
			logger.Debug("listener called",
				"event", args.Name(),
				"pattern", ContextPattern(ctx),
				"subscription", ContextSubscriptionID(ctx),
				"duration", time.Since(start),
				"stopped", IsStop(err),
				"error", err,
			)
			return err
		})
	}
}

// Throttle blocks each call until the limiter grants a token.
// If the context ends first, the context error fails the trigger.
//
// Example usage:
//
//	limiter := ratelimit.NewTokenBucket(100, 10)
//	m.On("metrics.flush", l, emitter.WithListenerMiddleware(emitter.Throttle(limiter)))
func Throttle(limiter ratelimit.Limiter) Middleware {
	return func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, args Args) error {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("throttle: %w", err)
			}
			return next.Handle(ctx, args)
		})
	}
}

// ThrottleByEvent is like Throttle with a separate budget per triggered
// event name, so a wildcard listener is limited per concrete event.
func ThrottleByEvent(limiter *ratelimit.Keyed) Middleware {
	return func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, args Args) error {
			if err := limiter.Get(args.Name()).Wait(ctx); err != nil {
				return fmt.Errorf("throttle %q: %w", args.Name(), err)
			}
			return next.Handle(ctx, args)
		})
	}
}

// Filter calls the listener only when pred accepts the arguments.
// Rejected calls are not counted by Trigger and dispatch continues.
func Filter(pred func(Args) bool) Middleware {
	return func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, args Args) error {
			if pred != nil && !pred(args) {
				return errSkip
			}
			return next.Handle(ctx, args)
		})
	}
}
