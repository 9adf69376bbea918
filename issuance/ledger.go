// Package issuance defines the non-fungible issuance-ledger collaborator the
// engine authorizes mints against, plus an in-memory implementation for
// tests and local runs.
package issuance

import (
	"context"

	"github.com/xraph/mintgate/types"
)

// Ledger is the system of record for who owns which token identifier.
//
// BalanceOf backs the per-wallet allocation cap; Minted lets the engine
// pre-validate a batch before collecting payment, so a post-payment Mint
// failure is confined to races with external minters.
type Ledger interface {
	// BalanceOf returns how many identifiers owner currently holds.
	BalanceOf(ctx context.Context, owner types.Address) (uint64, error)

	// Minted reports whether the identifier has already been issued.
	Minted(ctx context.Context, tokenID types.TokenID) (bool, error)

	// Mint issues the identifier to recipient. Fails if the identifier is
	// already issued or the caller lacks authorization on the ledger side.
	Mint(ctx context.Context, recipient types.Address, tokenID types.TokenID) error
}
