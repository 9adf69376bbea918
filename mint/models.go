// Package mint defines the records the engine produces: per-token mint
// receipts, bulk batch summaries, and fund withdrawals.
package mint

import (
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/types"
)

// Receipt records one successfully issued identifier: who paid, who
// received, which tier priced it, and at what price.
type Receipt struct {
	types.Entity
	ID        id.ReceiptID  `json:"id"`
	BatchID   id.BatchID    `json:"batch_id,omitempty"` // Nil for single mints
	Payer     types.Address `json:"payer"`
	Recipient types.Address `json:"recipient"`
	TokenID   types.TokenID `json:"token_id"`
	TierIndex uint8         `json:"tier_index"`
	Price     types.Amount  `json:"price"`
}

// Batch summarizes a bulk mint: the aggregate payment and the receipts it
// produced, in input order.
type Batch struct {
	types.Entity
	ID       id.BatchID    `json:"id"`
	Payer    types.Address `json:"payer"`
	Total    types.Amount  `json:"total"`
	Receipts []Receipt     `json:"receipts"`
}

// Withdrawal records a full sweep of the engine's vault balance to a
// treasury target.
type Withdrawal struct {
	types.Entity
	ID       id.WithdrawalID `json:"id"`
	Treasury types.Address   `json:"treasury"`
	Amount   types.Amount    `json:"amount"`
}

// ListOpts filters receipt listings.
type ListOpts struct {
	Recipient types.Address // Only receipts issued to this address, if set
	Payer     types.Address // Only receipts paid by this address, if set
	Limit     int
	Offset    int
}
