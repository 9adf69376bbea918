package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/mintgate/types"
)

func amt(n uint64) types.Amount { return types.NewAmount(n) }

func TestMemoryLedgerBalances(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	if b, _ := l.BalanceOf(ctx, "alice"); !b.IsZero() {
		t.Errorf("fresh account balance: got %s", b)
	}

	l.Credit("alice", amt(100))
	l.Credit("alice", amt(50))

	if b, _ := l.BalanceOf(ctx, "alice"); !b.Equal(amt(150)) {
		t.Errorf("after credits: got %s, want 150", b)
	}
}

func TestMemoryLedgerTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves funds", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Credit("alice", amt(100))

		if err := l.Transfer(ctx, "alice", "bob", amt(40)); err != nil {
			t.Fatal(err)
		}
		if b, _ := l.BalanceOf(ctx, "alice"); !b.Equal(amt(60)) {
			t.Errorf("alice: got %s, want 60", b)
		}
		if b, _ := l.BalanceOf(ctx, "bob"); !b.Equal(amt(40)) {
			t.Errorf("bob: got %s, want 40", b)
		}
	})

	t.Run("insufficient funds", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Credit("alice", amt(10))

		err := l.Transfer(ctx, "alice", "bob", amt(11))
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("got %v, want ErrInsufficientFunds", err)
		}
		// Nothing moved.
		if b, _ := l.BalanceOf(ctx, "alice"); !b.Equal(amt(10)) {
			t.Errorf("alice: got %s, want 10", b)
		}
	})
}

func TestMemoryLedgerTransferFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes allowance", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Credit("alice", amt(100))
		l.Approve("alice", "vault", amt(60))

		if err := l.TransferFrom(ctx, "alice", "vault", amt(25)); err != nil {
			t.Fatal(err)
		}
		if b, _ := l.BalanceOf(ctx, "vault"); !b.Equal(amt(25)) {
			t.Errorf("vault: got %s, want 25", b)
		}
		if a, _ := l.Allowance(ctx, "alice", "vault"); !a.Equal(amt(35)) {
			t.Errorf("remaining allowance: got %s, want 35", a)
		}
	})

	t.Run("insufficient allowance", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Credit("alice", amt(100))
		l.Approve("alice", "vault", amt(5))

		err := l.TransferFrom(ctx, "alice", "vault", amt(6))
		if !errors.Is(err, ErrInsufficientAllowance) {
			t.Fatalf("got %v, want ErrInsufficientAllowance", err)
		}
	})

	t.Run("no approval", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Credit("alice", amt(100))

		err := l.TransferFrom(ctx, "alice", "vault", amt(1))
		if !errors.Is(err, ErrInsufficientAllowance) {
			t.Fatalf("got %v, want ErrInsufficientAllowance", err)
		}
	})

	t.Run("allowance but no funds", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Approve("alice", "vault", amt(100))

		err := l.TransferFrom(ctx, "alice", "vault", amt(1))
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("got %v, want ErrInsufficientFunds", err)
		}
		// Allowance not consumed on failure.
		if a, _ := l.Allowance(ctx, "alice", "vault"); !a.Equal(amt(100)) {
			t.Errorf("allowance: got %s, want 100", a)
		}
	})

	t.Run("replace not accumulate", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Approve("alice", "vault", amt(10))
		l.Approve("alice", "vault", amt(3))

		if a, _ := l.Allowance(ctx, "alice", "vault"); !a.Equal(amt(3)) {
			t.Errorf("allowance: got %s, want 3", a)
		}
	})
}
