package emitter

import (
	"context"
	"errors"
	"testing"
)

func TestDefaultManager(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	SetDefault(nil)
	if err := On("foo", nopListener()); !errors.Is(err, ErrNoDefault) {
		t.Errorf("expected ErrNoDefault, got %v", err)
	}
	if _, err := Trigger(context.Background(), "foo"); !errors.Is(err, ErrNoDefault) {
		t.Errorf("expected ErrNoDefault, got %v", err)
	}

	m := TestManager()
	SetDefault(m)
	if Default() != m {
		t.Fatal("expected Default to return the stored manager")
	}

	rec := NewRecorder(nil)
	if err := On("app.ready", rec); err != nil {
		t.Fatal(err)
	}
	n, err := Trigger(context.Background(), "App.Ready", "v1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || rec.Count() != 1 {
		t.Errorf("expected 1 call, got %d and %d", n, rec.Count())
	}

	// Independent managers do not share listeners with the default.
	other := TestManager()
	if n := mustTrigger(t, other, "app.ready"); n != 0 {
		t.Errorf("expected independent manager to be empty, got %d", n)
	}
}
