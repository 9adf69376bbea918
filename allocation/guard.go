// Package allocation enforces the per-recipient holding cap ahead of any
// payment movement.
package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/mintgate/types"
)

// ErrCapExceeded is returned when an additional issuance would push a
// recipient past the per-wallet cap.
var ErrCapExceeded = errors.New("allocation: max mint per wallet exceeded")

// HoldingsCounter reports how many identifiers an account already holds.
// The issuance ledger satisfies this.
type HoldingsCounter interface {
	BalanceOf(ctx context.Context, owner types.Address) (uint64, error)
}

// Result describes a capacity check.
type Result struct {
	Allowed   bool          `json:"allowed"`
	Recipient types.Address `json:"recipient"`
	Held      uint64        `json:"held"`
	Requested uint64        `json:"requested"`
	Limit     uint64        `json:"limit"`
	Reason    string        `json:"reason,omitempty"`
}

// Guard checks recipients against the cap using a holdings counter.
type Guard struct {
	counter HoldingsCounter
}

// NewGuard creates a Guard reading holdings from counter.
func NewGuard(counter HoldingsCounter) *Guard {
	return &Guard{counter: counter}
}

// Check evaluates whether recipient may receive additional identifiers under
// limit. It returns a Result either way; the error is non-nil only when the
// holdings counter itself fails.
func (g *Guard) Check(ctx context.Context, recipient types.Address, additional, limit uint64) (*Result, error) {
	held, err := g.counter.BalanceOf(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("allocation: read holdings of %s: %w", recipient, err)
	}

	r := &Result{
		Recipient: recipient,
		Held:      held,
		Requested: additional,
		Limit:     limit,
	}
	if held+additional > limit {
		r.Reason = fmt.Sprintf("holds %d, requested %d, cap %d", held, additional, limit)
		return r, nil
	}
	r.Allowed = true
	return r, nil
}

// Enforce is Check folded into an error: it fails with ErrCapExceeded when
// the cap would be breached.
func (g *Guard) Enforce(ctx context.Context, recipient types.Address, additional, limit uint64) error {
	r, err := g.Check(ctx, recipient, additional, limit)
	if err != nil {
		return err
	}
	if !r.Allowed {
		return fmt.Errorf("%w: %s %s", ErrCapExceeded, recipient, r.Reason)
	}
	return nil
}
