package mintgate

import (
	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// Re-exported types for convenience so callers can use the root package
// for common cases without importing subpackages.

type (
	// Amount is a non-negative 256-bit integer payment amount.
	Amount = types.Amount

	// TokenID is a 256-bit token identifier.
	TokenID = types.TokenID

	// Address identifies an account on the payment and issuance ledgers.
	Address = types.Address

	// Tier is a price bound to a set of identifier ranges.
	Tier = tier.Tier

	// TierEntry pairs a tier with its registry index.
	TierEntry = tier.Entry

	// Range is an inclusive identifier interval.
	Range = tier.Range

	// Strategy selects the range-resolution algorithm.
	Strategy = tier.Strategy

	// Receipt records one completed mint.
	Receipt = mint.Receipt

	// Batch records one completed bulk mint.
	Batch = mint.Batch

	// Withdrawal records one treasury withdrawal.
	Withdrawal = mint.Withdrawal
)

// Re-exported constants.
const (
	// StrategyLinear resolves ranges by linear scan.
	StrategyLinear = tier.StrategyLinear

	// StrategyBinary resolves ranges by binary search over sorted ranges.
	StrategyBinary = tier.StrategyBinary

	// MaxTiers is the fixed tier registry capacity.
	MaxTiers = tier.MaxTiers
)

// Re-exported constructors.
var (
	// NewAmount returns an Amount holding the given value.
	NewAmount = types.NewAmount

	// ParseAmount parses a decimal or 0x-prefixed hex string.
	ParseAmount = types.ParseAmount

	// MustAmount is like ParseAmount but panics on error.
	MustAmount = types.MustAmount

	// ZeroAmount returns the zero Amount.
	ZeroAmount = types.ZeroAmount

	// NewTokenID returns a TokenID holding the given value.
	NewTokenID = types.NewTokenID

	// ParseTokenID parses a decimal or 0x-prefixed hex string.
	ParseTokenID = types.ParseTokenID

	// MustTokenID is like ParseTokenID but panics on error.
	MustTokenID = types.MustTokenID
)
