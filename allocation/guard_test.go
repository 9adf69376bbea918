package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/mintgate/types"
)

type fixedCounter map[types.Address]uint64

func (c fixedCounter) BalanceOf(_ context.Context, owner types.Address) (uint64, error) {
	return c[owner], nil
}

type failingCounter struct{ err error }

func (c failingCounter) BalanceOf(context.Context, types.Address) (uint64, error) {
	return 0, c.err
}

func TestGuardCheck(t *testing.T) {
	g := NewGuard(fixedCounter{"alice": 18, "bob": 20})
	ctx := context.Background()

	tests := []struct {
		name       string
		recipient  types.Address
		additional uint64
		limit      uint64
		allowed    bool
	}{
		{"well under cap", "alice", 1, 20, true},
		{"exactly to cap", "alice", 2, 20, true},
		{"one over cap", "alice", 3, 20, false},
		{"already at cap", "bob", 1, 20, false},
		{"zero additional at cap", "bob", 0, 20, true},
		{"empty wallet bulk", "carol", 20, 20, true},
		{"empty wallet over", "carol", 21, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := g.Check(ctx, tt.recipient, tt.additional, tt.limit)
			if err != nil {
				t.Fatal(err)
			}
			if r.Allowed != tt.allowed {
				t.Errorf("Allowed = %v, want %v (%+v)", r.Allowed, tt.allowed, r)
			}
		})
	}
}

func TestGuardEnforce(t *testing.T) {
	g := NewGuard(fixedCounter{"bob": 20})
	ctx := context.Background()

	if err := g.Enforce(ctx, "alice", 5, 20); err != nil {
		t.Errorf("Enforce under cap: %v", err)
	}
	if err := g.Enforce(ctx, "bob", 1, 20); !errors.Is(err, ErrCapExceeded) {
		t.Errorf("Enforce at cap: err = %v, want ErrCapExceeded", err)
	}
}

func TestGuardCounterFailure(t *testing.T) {
	boom := errors.New("ledger offline")
	g := NewGuard(failingCounter{err: boom})

	if _, err := g.Check(context.Background(), "alice", 1, 20); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped counter error", err)
	}
}
