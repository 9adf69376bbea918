// Package store defines the persistence interface for the engine's durable
// state: the tier snapshot, scalar configuration, and the append-only
// receipt and withdrawal logs.
package store

import (
	"context"

	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/tier"
)

// Config is the engine's persisted scalar configuration. The tier snapshot
// plus these fields are the engine's entire durable state.
type Config struct {
	MaxMintPerWallet uint64 `json:"max_mint_per_wallet"`
	Paused           bool   `json:"paused"`
}

// Store is the unified storage interface. Implementations must make
// SaveTiers and SaveReceipts atomic: either every entry lands or none does.
type Store interface {
	// Tier snapshot
	SaveTier(ctx context.Context, entry tier.Entry) error
	SaveTiers(ctx context.Context, entries []tier.Entry) error
	LoadTiers(ctx context.Context) ([]tier.Entry, error)

	// Scalar configuration
	SaveConfig(ctx context.Context, cfg Config) error
	LoadConfig(ctx context.Context) (*Config, error)

	// Receipt log
	SaveReceipts(ctx context.Context, receipts []*mint.Receipt) error
	GetReceipt(ctx context.Context, receiptID id.ReceiptID) (*mint.Receipt, error)
	ListReceipts(ctx context.Context, opts mint.ListOpts) ([]*mint.Receipt, error)

	// Withdrawal log
	SaveWithdrawal(ctx context.Context, w *mint.Withdrawal) error
	ListWithdrawals(ctx context.Context, limit, offset int) ([]*mint.Withdrawal, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
