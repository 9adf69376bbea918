// Package audithook bridges Mintgate lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on a
// concrete audit backend. Callers inject a RecorderFunc adapter at wiring
// time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                    = (*Extension)(nil)
	_ plugin.OnTierSet                 = (*Extension)(nil)
	_ plugin.OnMaxMintPerWalletChanged = (*Extension)(nil)
	_ plugin.OnTokenMinted             = (*Extension)(nil)
	_ plugin.OnBulkMinted              = (*Extension)(nil)
	_ plugin.OnMintDenied              = (*Extension)(nil)
	_ plugin.OnFundsWithdrawn          = (*Extension)(nil)
	_ plugin.OnPaused                  = (*Extension)(nil)
	_ plugin.OnUnpaused                = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so this package does not import a specific audit
// module — callers inject the concrete backend at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Mintgate lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Tier configuration hooks
// ──────────────────────────────────────────────────

// OnTierSet implements plugin.OnTierSet.
func (e *Extension) OnTierSet(ctx context.Context, entry tier.Entry) error {
	return e.record(ctx, ActionTierSet, SeverityInfo, OutcomeSuccess,
		ResourceTier, fmt.Sprintf("%d", entry.Index), CategoryConfiguration, nil,
		"price", entry.Price.String(),
		"ranges", len(entry.Ranges),
	)
}

// OnMaxMintPerWalletChanged implements plugin.OnMaxMintPerWalletChanged.
func (e *Extension) OnMaxMintPerWalletChanged(ctx context.Context, previous, current uint64) error {
	return e.record(ctx, ActionCapChanged, SeverityInfo, OutcomeSuccess,
		ResourceConfig, "", CategoryConfiguration, nil,
		"previous", previous,
		"current", current,
	)
}

// ──────────────────────────────────────────────────
// Minting hooks
// ──────────────────────────────────────────────────

// OnTokenMinted implements plugin.OnTokenMinted.
func (e *Extension) OnTokenMinted(ctx context.Context, receipt *mint.Receipt) error {
	return e.record(ctx, ActionTokenMinted, SeverityInfo, OutcomeSuccess,
		ResourceToken, receipt.TokenID.String(), CategoryMinting, nil,
		"receipt_id", receipt.ID.String(),
		"payer", receipt.Payer.String(),
		"recipient", receipt.Recipient.String(),
		"tier_index", receipt.TierIndex,
		"price", receipt.Price.String(),
	)
}

// OnBulkMinted implements plugin.OnBulkMinted.
func (e *Extension) OnBulkMinted(ctx context.Context, batch *mint.Batch) error {
	return e.record(ctx, ActionBulkMinted, SeverityInfo, OutcomeSuccess,
		ResourceBatch, batch.ID.String(), CategoryMinting, nil,
		"payer", batch.Payer.String(),
		"count", len(batch.Receipts),
		"total", batch.Total.String(),
	)
}

// OnMintDenied implements plugin.OnMintDenied.
func (e *Extension) OnMintDenied(ctx context.Context, payer, recipient types.Address, reason error) error {
	return e.record(ctx, ActionMintDenied, SeverityWarning, OutcomeFailure,
		ResourceToken, "", CategoryMinting, reason,
		"payer", payer.String(),
		"recipient", recipient.String(),
	)
}

// ──────────────────────────────────────────────────
// Treasury and pause hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (e *Extension) OnFundsWithdrawn(ctx context.Context, w *mint.Withdrawal) error {
	return e.record(ctx, ActionFundsWithdrawn, SeverityInfo, OutcomeSuccess,
		ResourceWithdrawal, w.ID.String(), CategoryTreasury, nil,
		"treasury", w.Treasury.String(),
		"amount", w.Amount.String(),
	)
}

// OnPaused implements plugin.OnPaused.
func (e *Extension) OnPaused(ctx context.Context) error {
	return e.record(ctx, ActionPaused, SeverityWarning, OutcomeSuccess,
		ResourceSale, "", CategoryConfiguration, nil,
		"event", "sale_paused",
	)
}

// OnUnpaused implements plugin.OnUnpaused.
func (e *Extension) OnUnpaused(ctx context.Context) error {
	return e.record(ctx, ActionUnpaused, SeverityInfo, OutcomeSuccess,
		ResourceSale, "", CategoryConfiguration, nil,
		"event", "sale_unpaused",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
