// Package plugin provides the engine's notification sink: an extensible hook
// system observing tier configuration, minting, and treasury events. Hooks
// are observers only — they never steer control flow inside the engine.
package plugin

import (
	"context"

	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts. The engine is passed as an opaque
// value to keep this package free of a dependency on the root package.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Tier configuration hooks
// ──────────────────────────────────────────────────

// OnTierSet is called once per tier replaced by a configuration call; a
// batch emits one event per tier, in argument order, only after the whole
// batch has committed.
type OnTierSet interface {
	Plugin
	OnTierSet(ctx context.Context, entry tier.Entry) error
}

// OnMaxMintPerWalletChanged is called when the per-wallet cap changes.
type OnMaxMintPerWalletChanged interface {
	Plugin
	OnMaxMintPerWalletChanged(ctx context.Context, previous, current uint64) error
}

// ──────────────────────────────────────────────────
// Minting hooks
// ──────────────────────────────────────────────────

// OnTokenMinted is called once per successfully issued identifier, in input
// order for bulk operations.
type OnTokenMinted interface {
	Plugin
	OnTokenMinted(ctx context.Context, receipt *mint.Receipt) error
}

// OnBulkMinted is called once per completed bulk operation, after the
// per-token OnTokenMinted events.
type OnBulkMinted interface {
	Plugin
	OnBulkMinted(ctx context.Context, batch *mint.Batch) error
}

// OnMintDenied is called when a mint or bulk mint is rejected before any
// payment moved.
type OnMintDenied interface {
	Plugin
	OnMintDenied(ctx context.Context, payer, recipient types.Address, reason error) error
}

// ──────────────────────────────────────────────────
// Treasury and pause hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn is called after a successful vault sweep.
type OnFundsWithdrawn interface {
	Plugin
	OnFundsWithdrawn(ctx context.Context, w *mint.Withdrawal) error
}

// OnPaused is called when minting is paused.
type OnPaused interface {
	Plugin
	OnPaused(ctx context.Context) error
}

// OnUnpaused is called when minting is resumed.
type OnUnpaused interface {
	Plugin
	OnUnpaused(ctx context.Context) error
}
