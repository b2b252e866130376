package emitter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecorder(t *testing.T) {
	m := TestManager()
	rec := NewRecorder(nil)
	mustOn(t, m, "user.*", rec)

	mustTrigger(t, m, "user.created", "alice")
	mustTrigger(t, m, "user.deleted", "bob")

	if rec.Count() != 2 {
		t.Fatalf("expected 2 calls, got %d", rec.Count())
	}
	if diff := cmp.Diff([]string{"user.created", "user.deleted"}, rec.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	calls := rec.Calls()
	if calls[0].Args.String(0) != "alice" || calls[1].Args.String(0) != "bob" {
		t.Errorf("unexpected arguments: %v, %v", calls[0].Args, calls[1].Args)
	}
	if ContextPattern(calls[0].Context) != "user.*" {
		t.Errorf("expected dispatch context to be recorded")
	}

	rec.Reset()
	if rec.Count() != 0 || rec.Last() != nil {
		t.Error("expected empty recorder after Reset")
	}
}

func TestRecorderHandler(t *testing.T) {
	m := TestManager()
	boom := errors.New("boom")
	rec := NewRecorder(func(ctx context.Context, args Args) error {
		return boom
	})
	mustOn(t, m, "foo", rec)

	if _, err := m.Trigger(context.Background(), "foo"); !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
	if rec.Count() != 1 {
		t.Errorf("expected the failing call to be recorded, got %d", rec.Count())
	}
}
