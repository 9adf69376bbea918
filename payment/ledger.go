// Package payment defines the fungible payment-ledger collaborator the
// engine charges against, plus an in-memory implementation for tests and
// local runs.
package payment

import (
	"context"

	"github.com/xraph/mintgate/types"
)

// Ledger is the system of record for fungible balances and allowances.
//
// The engine never mutates balances directly: it reads state through
// BalanceOf/Allowance and moves funds only through TransferFrom (payment
// collection, consuming the payer's allowance toward the engine's vault
// account) and Transfer (fund withdrawal out of the vault). Transfer takes
// an explicit from account where the native form implied the caller.
type Ledger interface {
	// BalanceOf returns the fungible balance of account.
	BalanceOf(ctx context.Context, account types.Address) (types.Amount, error)

	// Allowance returns how much spender may move out of owner's balance.
	Allowance(ctx context.Context, owner, spender types.Address) (types.Amount, error)

	// TransferFrom moves amount from owner to spender, consuming the
	// owner→spender allowance. Fails if balance or allowance is short.
	TransferFrom(ctx context.Context, owner, spender types.Address, amount types.Amount) error

	// Transfer moves amount from from to to without touching allowances.
	Transfer(ctx context.Context, from, to types.Address, amount types.Amount) error
}
