// Package observability provides a metrics extension for Mintgate that
// records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                    = (*MetricsExtension)(nil)
	_ plugin.OnInit                    = (*MetricsExtension)(nil)
	_ plugin.OnTierSet                 = (*MetricsExtension)(nil)
	_ plugin.OnMaxMintPerWalletChanged = (*MetricsExtension)(nil)
	_ plugin.OnTokenMinted             = (*MetricsExtension)(nil)
	_ plugin.OnBulkMinted              = (*MetricsExtension)(nil)
	_ plugin.OnMintDenied              = (*MetricsExtension)(nil)
	_ plugin.OnFundsWithdrawn          = (*MetricsExtension)(nil)
	_ plugin.OnPaused                  = (*MetricsExtension)(nil)
	_ plugin.OnUnpaused                = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Mintgate plugin to automatically track sale metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Tier configuration metrics
	TierSet    Counter
	CapChanged Counter

	// Mint metrics
	TokensMinted   Counter
	BatchesMinted  Counter
	BatchSize      Histogram
	BatchTotal     Histogram
	MintsDenied    Counter
	MintPriceValue Histogram

	// Treasury metrics
	Withdrawals      Counter
	WithdrawalAmount Histogram

	// Pause metrics
	Paused   Counter
	Unpaused Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Tier configuration metrics
		TierSet:    factory.Counter("mintgate.tier.set"),
		CapChanged: factory.Counter("mintgate.cap.changed"),

		// Mint metrics
		TokensMinted:   factory.Counter("mintgate.mint.tokens"),
		BatchesMinted:  factory.Counter("mintgate.mint.batches"),
		BatchSize:      factory.Histogram("mintgate.mint.batch.size"),
		BatchTotal:     factory.Histogram("mintgate.mint.batch.total"),
		MintsDenied:    factory.Counter("mintgate.mint.denied"),
		MintPriceValue: factory.Histogram("mintgate.mint.price"),

		// Treasury metrics
		Withdrawals:      factory.Counter("mintgate.withdrawal.count"),
		WithdrawalAmount: factory.Histogram("mintgate.withdrawal.amount"),

		// Pause metrics
		Paused:   factory.Counter("mintgate.paused"),
		Unpaused: factory.Counter("mintgate.unpaused"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	// No initialization needed
	return nil
}

// OnTierSet implements plugin.OnTierSet.
func (m *MetricsExtension) OnTierSet(_ context.Context, _ tier.Entry) error {
	m.TierSet.Inc()
	return nil
}

// OnMaxMintPerWalletChanged implements plugin.OnMaxMintPerWalletChanged.
func (m *MetricsExtension) OnMaxMintPerWalletChanged(_ context.Context, _, _ uint64) error {
	m.CapChanged.Inc()
	return nil
}

// OnTokenMinted implements plugin.OnTokenMinted.
func (m *MetricsExtension) OnTokenMinted(_ context.Context, receipt *mint.Receipt) error {
	m.TokensMinted.Inc()
	m.MintPriceValue.Observe(amountValue(receipt.Price))
	return nil
}

// OnBulkMinted implements plugin.OnBulkMinted.
func (m *MetricsExtension) OnBulkMinted(_ context.Context, batch *mint.Batch) error {
	m.BatchesMinted.Inc()
	m.BatchSize.Observe(float64(len(batch.Receipts)))
	m.BatchTotal.Observe(amountValue(batch.Total))
	return nil
}

// OnMintDenied implements plugin.OnMintDenied.
func (m *MetricsExtension) OnMintDenied(_ context.Context, _, _ types.Address, _ error) error {
	m.MintsDenied.Inc()
	return nil
}

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (m *MetricsExtension) OnFundsWithdrawn(_ context.Context, w *mint.Withdrawal) error {
	m.Withdrawals.Inc()
	m.WithdrawalAmount.Observe(amountValue(w.Amount))
	return nil
}

// OnPaused implements plugin.OnPaused.
func (m *MetricsExtension) OnPaused(_ context.Context) error {
	m.Paused.Inc()
	return nil
}

// OnUnpaused implements plugin.OnUnpaused.
func (m *MetricsExtension) OnUnpaused(_ context.Context) error {
	m.Unpaused.Inc()
	return nil
}

// amountValue reports an amount as a float64 observation. Values beyond
// 64 bits saturate, which is acceptable for histogram purposes.
func amountValue(a types.Amount) float64 {
	v, ok := a.Uint64()
	if !ok {
		return float64(^uint64(0))
	}
	return float64(v)
}
