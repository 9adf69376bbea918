package mintgate

import (
	"context"
	"fmt"

	"github.com/xraph/mintgate/allocation"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/issuance"
	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/payment"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// mintEnv is the consistent snapshot a mint operation runs against. It is
// captured once under RLock so an administrative mutation mid-operation can
// never produce a partially applied view.
type mintEnv struct {
	registry *tier.Registry
	maxMint  uint64
	vault    types.Address
	payments payment.Ledger
	issuer   issuance.Ledger
	guard    *allocation.Guard
}

func (e *Engine) snapshotMintEnv() mintEnv {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return mintEnv{
		registry: e.registry.Clone(),
		maxMint:  e.maxMint,
		vault:    e.vault,
		payments: e.payments,
		issuer:   e.issuer,
		guard:    e.guard,
	}
}

// resolvePriced returns the owning tier index and price for tokenID, with
// the defensive zero-price check on the stored tier.
func resolvePriced(env mintEnv, tokenID types.TokenID) (uint8, types.Amount, error) {
	index, err := env.registry.Resolve(tokenID)
	if err != nil {
		return 0, types.Amount{}, err
	}
	t, err := env.registry.Get(index)
	if err != nil {
		return 0, types.Amount{}, err
	}
	if t.Price.IsZero() {
		return 0, types.Amount{}, fmt.Errorf("%w: tier %d has zero price", ErrInvalidTier, index)
	}
	return index, t.Price, nil
}

// beginMint enforces the pause gate and the single-operation critical
// section. The returned func releases the section.
func (e *Engine) beginMint() (func(), error) {
	if e.paused.Load() {
		return nil, ErrPaused
	}
	if !e.minting.CompareAndSwap(false, true) {
		return nil, ErrMintInProgress
	}
	return func() { e.minting.Store(false) }, nil
}

// Mint charges the caller the resolved tier price of tokenID and issues it
// to recipient. The sequence is capacity check, price resolution,
// already-issued check, balance check, allowance check, payment collection,
// issuance. Any failing step aborts the operation with no funds moved and
// nothing issued.
func (e *Engine) Mint(ctx context.Context, recipient types.Address, tokenID types.TokenID) (*mint.Receipt, error) {
	payer := CallerFrom(ctx)
	if payer.IsZero() {
		return nil, ErrNoCaller
	}
	if recipient.IsZero() {
		return nil, fmt.Errorf("%w: zero recipient", ErrInvalidInput)
	}

	release, err := e.beginMint()
	if err != nil {
		return nil, err
	}
	defer release()

	env := e.snapshotMintEnv()

	receipt, err := e.mintOne(ctx, env, payer, recipient, tokenID)
	if err != nil {
		e.plugins.EmitMintDenied(ctx, payer, recipient, err)
		return nil, err
	}

	if err := e.store.SaveReceipts(ctx, []*mint.Receipt{receipt}); err != nil {
		// Payment and issuance are already committed on the external
		// ledgers; losing the bookkeeping row must not fail the mint.
		e.logger.Warn("failed to persist mint receipt",
			"receipt_id", receipt.ID.String(),
			"error", err,
		)
	}

	e.plugins.EmitTokenMinted(ctx, receipt)
	e.logger.Debug("token minted",
		"payer", payer.String(),
		"recipient", recipient.String(),
		"token_id", tokenID.String(),
		"tier", receipt.TierIndex,
		"price", receipt.Price.String(),
	)
	return receipt, nil
}

// mintOne runs the single-mint check sequence and, only after every check
// passes, collects payment and issues. If issuance fails after payment was
// collected the payment is refunded before the error is reported.
func (e *Engine) mintOne(ctx context.Context, env mintEnv, payer, recipient types.Address, tokenID types.TokenID) (*mint.Receipt, error) {
	if err := env.guard.Enforce(ctx, recipient, 1, env.maxMint); err != nil {
		return nil, err
	}

	tierIndex, price, err := resolvePriced(env, tokenID)
	if err != nil {
		return nil, err
	}

	issued, err := env.issuer.Minted(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("mintgate: check issuance of %s: %w", tokenID, err)
	}
	if issued {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyMinted, tokenID)
	}

	if err := e.checkFunding(ctx, env, payer, price); err != nil {
		return nil, err
	}

	if err := env.payments.TransferFrom(ctx, payer, env.vault, price); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if err := env.issuer.Mint(ctx, recipient, tokenID); err != nil {
		e.refund(ctx, env, payer, price)
		return nil, fmt.Errorf("%w: %s: %v", ErrMintFailed, tokenID, err)
	}

	return &mint.Receipt{
		Entity:    types.NewEntity(),
		ID:        id.NewReceiptID(),
		Payer:     payer,
		Recipient: recipient,
		TokenID:   tokenID,
		TierIndex: tierIndex,
		Price:     price,
	}, nil
}

// BulkMint charges the caller the aggregate price of tokenIDs in a single
// transfer and issues each identifier to recipient in input order. A
// pricing failure for any identifier, an already-issued identifier, or a
// funding shortfall aborts the whole batch before any payment is collected.
func (e *Engine) BulkMint(ctx context.Context, recipient types.Address, tokenIDs []types.TokenID) (*mint.Batch, error) {
	payer := CallerFrom(ctx)
	if payer.IsZero() {
		return nil, ErrNoCaller
	}
	if recipient.IsZero() {
		return nil, fmt.Errorf("%w: zero recipient", ErrInvalidInput)
	}
	if len(tokenIDs) == 0 {
		return nil, fmt.Errorf("%w: empty token list", ErrInvalidInput)
	}

	release, err := e.beginMint()
	if err != nil {
		return nil, err
	}
	defer release()

	env := e.snapshotMintEnv()

	batch, err := e.mintBulk(ctx, env, payer, recipient, tokenIDs)
	if err != nil {
		e.plugins.EmitMintDenied(ctx, payer, recipient, err)
		return nil, err
	}

	receipts := make([]*mint.Receipt, len(batch.Receipts))
	for i := range batch.Receipts {
		receipts[i] = &batch.Receipts[i]
	}
	if err := e.store.SaveReceipts(ctx, receipts); err != nil {
		e.logger.Warn("failed to persist bulk mint receipts",
			"batch_id", batch.ID.String(),
			"count", len(receipts),
			"error", err,
		)
	}

	for i := range batch.Receipts {
		e.plugins.EmitTokenMinted(ctx, &batch.Receipts[i])
	}
	e.plugins.EmitBulkMinted(ctx, batch)
	e.logger.Debug("bulk minted",
		"payer", payer.String(),
		"recipient", recipient.String(),
		"count", len(batch.Receipts),
		"total", batch.Total.String(),
	)
	return batch, nil
}

// mintBulk validates the entire batch, collects one aggregate payment, then
// issues every identifier. Issuance failure partway is compensated: the
// prices of every identifier not issued are refunded, so the payer never
// pays for an unissued token and never receives an unpaid one.
func (e *Engine) mintBulk(ctx context.Context, env mintEnv, payer, recipient types.Address, tokenIDs []types.TokenID) (*mint.Batch, error) {
	if err := env.guard.Enforce(ctx, recipient, uint64(len(tokenIDs)), env.maxMint); err != nil {
		return nil, err
	}

	prices := make([]types.Amount, len(tokenIDs))
	tiers := make([]uint8, len(tokenIDs))
	total := types.ZeroAmount()
	for i, tokenID := range tokenIDs {
		tierIndex, price, err := resolvePriced(env, tokenID)
		if err != nil {
			return nil, err
		}
		issued, err := env.issuer.Minted(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("mintgate: check issuance of %s: %w", tokenID, err)
		}
		if issued {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyMinted, tokenID)
		}
		prices[i] = price
		tiers[i] = tierIndex
		total = total.Add(price)
	}

	if err := e.checkFunding(ctx, env, payer, total); err != nil {
		return nil, err
	}

	// One aggregate transfer keeps the external-call surface minimal.
	if err := env.payments.TransferFrom(ctx, payer, env.vault, total); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	batch := &mint.Batch{
		Entity:   types.NewEntity(),
		ID:       id.NewBatchID(),
		Payer:    payer,
		Total:    total,
		Receipts: make([]mint.Receipt, 0, len(tokenIDs)),
	}

	for i, tokenID := range tokenIDs {
		if err := env.issuer.Mint(ctx, recipient, tokenID); err != nil {
			// Only a race with an external minter reaches here: the batch
			// was pre-validated as unissued. Refund everything not issued.
			unissued := total
			for _, r := range batch.Receipts {
				unissued = unissued.Sub(r.Price)
			}
			e.refund(ctx, env, payer, unissued)
			return nil, fmt.Errorf("%w: %s: %v", ErrMintFailed, tokenID, err)
		}
		batch.Receipts = append(batch.Receipts, mint.Receipt{
			Entity:    types.NewEntity(),
			ID:        id.NewReceiptID(),
			BatchID:   batch.ID,
			Payer:     payer,
			Recipient: recipient,
			TokenID:   tokenID,
			TierIndex: tiers[i],
			Price:     prices[i],
		})
	}

	return batch, nil
}

// checkFunding verifies balance then allowance before any transfer is
// attempted, so a doomed operation never reaches the payment ledger.
func (e *Engine) checkFunding(ctx context.Context, env mintEnv, payer types.Address, amount types.Amount) error {
	balance, err := env.payments.BalanceOf(ctx, payer)
	if err != nil {
		return fmt.Errorf("mintgate: read balance of %s: %w", payer, err)
	}
	if balance.LessThan(amount) {
		return fmt.Errorf("%w: %s holds %s, need %s", ErrInsufficientBalance, payer, balance, amount)
	}

	allowed, err := env.payments.Allowance(ctx, payer, env.vault)
	if err != nil {
		return fmt.Errorf("mintgate: read allowance of %s: %w", payer, err)
	}
	if allowed.LessThan(amount) {
		return fmt.Errorf("%w: %s allows %s, need %s", ErrNoAllowance, payer, allowed, amount)
	}
	return nil
}

// refund returns amount from the vault to the payer after a post-payment
// issuance failure. A refund failure is logged loudly; it cannot be
// propagated without masking the original error.
func (e *Engine) refund(ctx context.Context, env mintEnv, payer types.Address, amount types.Amount) {
	if amount.IsZero() {
		return
	}
	if err := env.payments.Transfer(ctx, env.vault, payer, amount); err != nil {
		e.logger.Error("refund after failed issuance did not complete",
			"payer", payer.String(),
			"amount", amount.String(),
			"error", err,
		)
	}
}

// CheckAllocation reports whether recipient could receive additional
// identifiers under the current cap, without minting anything.
func (e *Engine) CheckAllocation(ctx context.Context, recipient types.Address, additional uint64) (*allocation.Result, error) {
	e.mu.RLock()
	guard := e.guard
	limit := e.maxMint
	e.mu.RUnlock()
	return guard.Check(ctx, recipient, additional, limit)
}

// GetReceipt retrieves a mint receipt by ID.
func (e *Engine) GetReceipt(ctx context.Context, receiptID id.ReceiptID) (*mint.Receipt, error) {
	return e.store.GetReceipt(ctx, receiptID)
}

// ListReceipts lists mint receipts in issuance order.
func (e *Engine) ListReceipts(ctx context.Context, opts mint.ListOpts) ([]*mint.Receipt, error) {
	return e.store.ListReceipts(ctx, opts)
}

// ListWithdrawals lists withdrawal records in sweep order.
func (e *Engine) ListWithdrawals(ctx context.Context, limit, offset int) ([]*mint.Withdrawal, error) {
	return e.store.ListWithdrawals(ctx, limit, offset)
}
