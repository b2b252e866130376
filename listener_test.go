package emitter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgsInt(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   int
		wantOK bool
	}{
		{"int", 7, 7, true},
		{"int8", int8(-3), -3, true},
		{"int64", int64(42), 42, true},
		{"uint8", uint8(255), 255, true},
		{"uint32", uint32(100), 100, true},
		{"uint64", uint64(9), 9, true},
		{"uint64 max", uint64(math.MaxUint64), 0, false},
		{"uint max", uint(math.MaxUint), 0, false},
		{"string", "12", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Args{tt.in, "foo"}
			got, ok := args.Int(0)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Int got:(%d, %v), expected:(%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestArgsHelpers(t *testing.T) {
	args := Args{"a", 2, true, "item.save"}

	if args.Name() != "item.save" {
		t.Errorf("unexpected name %q", args.Name())
	}
	if diff := cmp.Diff([]any{"a", 2, true}, args.Payload()); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if args.String(1) != "2" {
		t.Errorf("unexpected string %q", args.String(1))
	}
	if b, ok := args.Bool(2); !b || !ok {
		t.Error("expected bool argument")
	}
	if args.Get(10) != nil || args.String(-1) != "" {
		t.Error("expected out of range access to be empty")
	}
	if Args(nil).Name() != "" || Args(nil).Payload() != nil {
		t.Error("expected empty args to be empty")
	}
}

func TestDefaultName(t *testing.T) {
	m := New(WithTracing(false), WithMetrics(false))
	if m.Name() != DefaultName {
		t.Errorf("got:%q, expected:%q", m.Name(), DefaultName)
	}
}
