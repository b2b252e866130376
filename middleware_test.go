package emitter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rbaliyan/emitter/ratelimit"
)

// tagMiddleware records "tag>" before and "<tag" after the wrapped call.
func tagMiddleware(out *[]string, tag string) Middleware {
	return func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, args Args) error {
			*out = append(*out, tag+">")
			err := next.Handle(ctx, args)
			*out = append(*out, "<"+tag)
			return err
		})
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var result []string
	m := TestManager(WithMiddleware(tagMiddleware(&result, "m1"), tagMiddleware(&result, "m2")))

	err := m.On("foo", tagger(&result, "call"),
		WithListenerMiddleware(tagMiddleware(&result, "l1")),
		WithListenerMiddleware(tagMiddleware(&result, "l2")))
	if err != nil {
		t.Fatal(err)
	}

	mustTrigger(t, m, "foo")
	want := []string{"m1>", "m2>", "l1>", "l2>", "call", "<l2", "<l1", "<m2", "<m1"}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("middleware order mismatch (-want +got):\n%s", diff)
	}
}

func TestMiddlewareKeepsIdentity(t *testing.T) {
	var result []string
	m := TestManager(WithMiddleware(tagMiddleware(&result, "m")))
	l := nopListener()
	mustOn(t, m, "foo", l)

	list, _ := m.Listeners("foo")
	if len(list) != 1 || list[0] != l {
		t.Fatalf("expected the registered listener, got %v", list)
	}
	if ok, _ := m.RemoveListener("foo", l); !ok {
		t.Error("expected removal of a wrapped listener")
	}
}

func TestFilter(t *testing.T) {
	m := TestManager()
	rec := NewRecorder(nil)
	onlyInts := Filter(func(args Args) bool {
		_, ok := args.Int(0)
		return ok
	})
	mustOn(t, m, "foo", rec, WithListenerMiddleware(onlyInts))
	mustOn(t, m, "foo", nopListener(), WithPriority(Low))

	if n := mustTrigger(t, m, "foo", 42); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
	if n := mustTrigger(t, m, "foo", "nope"); n != 1 {
		t.Errorf("expected rejected call not to count, got %d", n)
	}
	if rec.Count() != 1 {
		t.Errorf("expected 1 recorded call, got %d", rec.Count())
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := TestManager(WithLogger(logger), WithMiddleware(Logging(logger)))

	mustOn(t, m, "item.*", nopListener())
	mustTrigger(t, m, "item.save")

	out := buf.String()
	for _, want := range []string{"registered listener", "listener called", "event=item.save", "pattern=item.*", "component=emitter>test-emitter"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := TestManager(WithMiddleware(Recovery(logger)))
	mustOn(t, m, "foo", Func(func(context.Context, Args) error {
		panic(errors.New("kaboom"))
	}))

	_, err := m.Trigger(context.Background(), "foo")
	var perr *PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PanicError, got %v", err)
	}
	if perr.Stack == "" {
		t.Error("expected stack trace")
	}
	if !strings.Contains(buf.String(), "listener panic recovered") {
		t.Errorf("expected panic to be logged, got:\n%s", buf.String())
	}
}

func TestThrottle(t *testing.T) {
	t.Run("passes within burst", func(t *testing.T) {
		m := TestManager()
		limiter := ratelimit.NewTokenBucket(1000, 3)
		mustOn(t, m, "foo", nopListener(), WithListenerMiddleware(Throttle(limiter)))

		for i := 0; i < 3; i++ {
			if n := mustTrigger(t, m, "foo"); n != 1 {
				t.Errorf("trigger %d: expected 1, got %d", i, n)
			}
		}
	})

	t.Run("fails when context ends", func(t *testing.T) {
		m := TestManager()
		limiter := ratelimit.NewTokenBucket(0.001, 1)
		limiter.Allow(context.Background())
		mustOn(t, m, "foo", nopListener(), WithListenerMiddleware(Throttle(limiter)))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		n, err := m.Trigger(ctx, "foo")
		if err == nil {
			t.Fatal("expected throttle error")
		}
		if n != 0 {
			t.Errorf("expected 0, got %d", n)
		}
	})

	t.Run("by event", func(t *testing.T) {
		m := TestManager()
		keyed := ratelimit.NewKeyed(0.001, 1)
		mustOn(t, m, "sync.*", nopListener(), WithListenerMiddleware(ThrottleByEvent(keyed)))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if n, err := m.Trigger(ctx, "sync.a"); n != 1 || err != nil {
			t.Errorf("expected sync.a to pass, got %d (%v)", n, err)
		}
		if n, err := m.Trigger(ctx, "sync.b"); n != 1 || err != nil {
			t.Errorf("expected sync.b to pass, got %d (%v)", n, err)
		}
		if _, err := m.Trigger(ctx, "sync.a"); err == nil {
			t.Error("expected second sync.a to be throttled")
		}
		if keyed.Len() != 2 {
			t.Errorf("expected 2 keys, got %d", keyed.Len())
		}
	})
}
