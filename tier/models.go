// Package tier implements the tier registry and pricing resolution engine:
// a bounded, indexed collection of price tiers, each covering one or more
// closed ranges of the 256-bit identifier space.
package tier

import (
	"fmt"

	"github.com/xraph/mintgate/types"
)

// MaxTiers is the fixed registry capacity. Index 0 is valid but unused by
// convention.
const MaxTiers = 20

// TokenID aliases the shared identifier type.
type TokenID = types.TokenID

// Price aliases the shared amount type for tier prices.
type Price = types.Amount

// Range is a closed interval [Start, End] of token identifiers.
type Range struct {
	Start TokenID `json:"start"`
	End   TokenID `json:"end"`
}

// Contains returns true if id falls within the range, inclusive of both ends.
func (r Range) Contains(id TokenID) bool {
	return id.Cmp(r.Start) >= 0 && id.Cmp(r.End) <= 0
}

// Validate checks that Start <= End.
func (r Range) Validate() error {
	if r.Start.Cmp(r.End) > 0 {
		return fmt.Errorf("%w: start %s > end %s", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// String returns the range as "[start, end]".
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}

// Tier is a price bracket covering an ordered sequence of ranges.
// A tier with a zero price is unset: it resolves no identifiers. There is no
// way to configure a free tier; that conflation is part of the data model.
type Tier struct {
	Price  Price   `json:"price"`
	Ranges []Range `json:"ranges"`
}

// IsSet returns true if the tier has a nonzero price.
func (t Tier) IsSet() bool { return !t.Price.IsZero() }

// Clone returns a deep copy of the tier.
func (t Tier) Clone() Tier {
	out := Tier{Price: t.Price}
	if t.Ranges != nil {
		out.Ranges = make([]Range, len(t.Ranges))
		copy(out.Ranges, t.Ranges)
	}
	return out
}

// Entry pairs a tier with its registry index. Used for snapshots and
// change notifications.
type Entry struct {
	Index uint8 `json:"index"`
	Tier
}

// Strategy selects how range containment is tested during resolution.
type Strategy string

const (
	// StrategyLinear scans a tier's ranges in stored order. Works regardless
	// of range ordering.
	StrategyLinear Strategy = "linear"

	// StrategyBinary binary-searches a tier's ranges. Requires each tier's
	// ranges sorted ascending by start with no overlaps; the registry
	// enforces this at configuration time when the strategy is active.
	StrategyBinary Strategy = "binary"
)

// Validate checks that the strategy is a known value.
func (s Strategy) Validate() error {
	switch s {
	case StrategyLinear, StrategyBinary:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, string(s))
	}
}
