package mintgate

import (
	"context"
	"fmt"

	"github.com/xraph/mintgate/access"
	"github.com/xraph/mintgate/allocation"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/issuance"
	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/payment"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// requireManager resolves the caller from the context and checks the
// manager capability against the bound access provider.
func (e *Engine) requireManager(ctx context.Context) (types.Address, error) {
	caller := CallerFrom(ctx)
	if caller.IsZero() {
		return types.ZeroAddress, ErrNoCaller
	}

	e.mu.RLock()
	roles := e.roles
	e.mu.RUnlock()

	ok, err := roles.HasRole(ctx, access.RoleManager, caller)
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("mintgate: capability check: %w", err)
	}
	if !ok {
		return types.ZeroAddress, fmt.Errorf("%w: %s lacks %q", ErrUnauthorized, caller, access.RoleManager)
	}
	return caller, nil
}

// ──────────────────────────────────────────────────
// Tier configuration
// ──────────────────────────────────────────────────

// SetTier replaces the tier at index with the given price and ranges. The
// previous range list is discarded wholesale. Manager capability required.
func (e *Engine) SetTier(ctx context.Context, index uint8, price types.Amount, ranges []tier.Range) error {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	previous, err := e.registry.Get(index)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.registry.Set(index, price, ranges); err != nil {
		e.mu.Unlock()
		return err
	}
	entry := tier.Entry{Index: index, Tier: tier.Tier{Price: price, Ranges: ranges}.Clone()}
	e.mu.Unlock()

	if err := e.store.SaveTier(ctx, entry); err != nil {
		// Keep registry and store consistent: put the old tier back.
		e.mu.Lock()
		_ = e.registry.Set(index, previous.Price, previous.Ranges) //nolint:errcheck // restoring a previously valid tier
		e.mu.Unlock()
		return fmt.Errorf("mintgate: persist tier %d: %w", index, err)
	}

	e.plugins.EmitTierSet(ctx, entry)
	e.logger.Info("tier set",
		"caller", caller.String(),
		"index", index,
		"price", price.String(),
		"ranges", len(ranges),
	)
	return nil
}

// SetTiers applies several tier replacements atomically: the three slices
// must have equal length and every index must be valid, otherwise nothing
// is applied. Manager capability required.
func (e *Engine) SetTiers(ctx context.Context, indexes []uint8, prices []types.Amount, rangeLists [][]tier.Range) error {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	snapshot := e.registry.Snapshot()
	if err := e.registry.SetBatch(indexes, prices, rangeLists); err != nil {
		e.mu.Unlock()
		return err
	}
	entries := make([]tier.Entry, len(indexes))
	for i, index := range indexes {
		entries[i] = tier.Entry{Index: index, Tier: tier.Tier{Price: prices[i], Ranges: rangeLists[i]}.Clone()}
	}
	e.mu.Unlock()

	if err := e.store.SaveTiers(ctx, entries); err != nil {
		e.mu.Lock()
		_ = e.registry.Restore(snapshot) //nolint:errcheck // restoring a previously valid snapshot
		e.mu.Unlock()
		return fmt.Errorf("mintgate: persist %d tiers: %w", len(entries), err)
	}

	for _, entry := range entries {
		e.plugins.EmitTierSet(ctx, entry)
	}
	e.logger.Info("tiers set", "caller", caller.String(), "count", len(entries))
	return nil
}

// GetTier returns a copy of the tier at index; an unset index yields the
// empty tier. Not capability-gated: tier configuration is public state.
func (e *Engine) GetTier(index uint8) (tier.Tier, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Get(index)
}

// GetTokenTier resolves the tier index owning tokenID.
func (e *Engine) GetTokenTier(tokenID types.TokenID) (uint8, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Resolve(tokenID)
}

// GetTokenPrice resolves the price of tokenID. The result is stable across
// calls absent administrative mutation.
func (e *Engine) GetTokenPrice(tokenID types.TokenID) (types.Amount, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Price(tokenID)
}

// ──────────────────────────────────────────────────
// Scalar configuration
// ──────────────────────────────────────────────────

// SetMaxMintPerWallet changes the per-recipient holding cap. Manager
// capability required.
func (e *Engine) SetMaxMintPerWallet(ctx context.Context, n uint64) error {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	previous := e.maxMint
	e.maxMint = n
	e.mu.Unlock()

	if err := e.persistConfig(ctx); err != nil {
		e.mu.Lock()
		e.maxMint = previous
		e.mu.Unlock()
		return fmt.Errorf("mintgate: persist config: %w", err)
	}

	e.plugins.EmitMaxMintPerWalletChanged(ctx, previous, n)
	e.logger.Info("max mint per wallet changed",
		"caller", caller.String(),
		"previous", previous,
		"current", n,
	)
	return nil
}

// SetPaymentLedger rebinds the fungible payment ledger. Manager capability
// required.
func (e *Engine) SetPaymentLedger(ctx context.Context, l payment.Ledger) error {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("%w: nil payment ledger", ErrInvalidInput)
	}

	e.mu.Lock()
	e.payments = l
	e.mu.Unlock()

	e.logger.Info("payment ledger rebound", "caller", caller.String())
	return nil
}

// SetIssuanceLedger rebinds the non-fungible issuance ledger. The
// allocation guard follows the new ledger. Manager capability required.
func (e *Engine) SetIssuanceLedger(ctx context.Context, l issuance.Ledger) error {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("%w: nil issuance ledger", ErrInvalidInput)
	}

	e.mu.Lock()
	e.issuer = l
	e.guard = allocation.NewGuard(l)
	e.mu.Unlock()

	e.logger.Info("issuance ledger rebound", "caller", caller.String())
	return nil
}

// ──────────────────────────────────────────────────
// Treasury
// ──────────────────────────────────────────────────

// WithdrawFunds sweeps the engine's entire vault balance on the payment
// ledger to treasury. Fails with ErrZeroBalance when there is nothing to
// withdraw and ErrWithdrawFailed when the ledger rejects the transfer.
// Manager capability required.
func (e *Engine) WithdrawFunds(ctx context.Context, treasury types.Address) (*mint.Withdrawal, error) {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return nil, err
	}
	if treasury.IsZero() {
		return nil, fmt.Errorf("%w: zero treasury address", ErrInvalidInput)
	}

	e.mu.RLock()
	payments := e.payments
	vault := e.vault
	e.mu.RUnlock()

	balance, err := payments.BalanceOf(ctx, vault)
	if err != nil {
		return nil, fmt.Errorf("mintgate: read vault balance: %w", err)
	}
	if balance.IsZero() {
		return nil, fmt.Errorf("%w: vault %s", ErrZeroBalance, vault)
	}

	if err := payments.Transfer(ctx, vault, treasury, balance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWithdrawFailed, err)
	}

	w := &mint.Withdrawal{
		Entity:   types.NewEntity(),
		ID:       id.NewWithdrawalID(),
		Treasury: treasury,
		Amount:   balance,
	}
	if err := e.store.SaveWithdrawal(ctx, w); err != nil {
		// The sweep is already committed on the payment ledger; losing the
		// bookkeeping row must not fail the operation.
		e.logger.Warn("failed to persist withdrawal record",
			"withdrawal_id", w.ID.String(),
			"error", err,
		)
	}

	e.plugins.EmitFundsWithdrawn(ctx, w)
	e.logger.Info("funds withdrawn",
		"caller", caller.String(),
		"treasury", treasury.String(),
		"amount", balance.String(),
	)
	return w, nil
}

// ──────────────────────────────────────────────────
// Pause control
// ──────────────────────────────────────────────────

// Pause blocks Mint and BulkMint. Administrative operations remain
// available. Manager capability required.
func (e *Engine) Pause(ctx context.Context) error {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return err
	}

	previous := e.paused.Swap(true)
	if err := e.persistConfig(ctx); err != nil {
		e.paused.Store(previous)
		return fmt.Errorf("mintgate: persist config: %w", err)
	}

	if !previous {
		e.plugins.EmitPaused(ctx)
		e.logger.Info("minting paused", "caller", caller.String())
	}
	return nil
}

// Unpause re-enables Mint and BulkMint. Manager capability required.
func (e *Engine) Unpause(ctx context.Context) error {
	caller, err := e.requireManager(ctx)
	if err != nil {
		return err
	}

	previous := e.paused.Swap(false)
	if err := e.persistConfig(ctx); err != nil {
		e.paused.Store(previous)
		return fmt.Errorf("mintgate: persist config: %w", err)
	}

	if previous {
		e.plugins.EmitUnpaused(ctx)
		e.logger.Info("minting unpaused", "caller", caller.String())
	}
	return nil
}
