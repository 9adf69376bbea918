package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// Registry manages all registered plugins and provides type-cached dispatch:
// each hook interface keeps its own slice so emission never type-switches on
// the hot path.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	onInit                    []OnInit
	onShutdown                []OnShutdown
	onTierSet                 []OnTierSet
	onMaxMintPerWalletChanged []OnMaxMintPerWalletChanged
	onTokenMinted             []OnTokenMinted
	onBulkMinted              []OnBulkMinted
	onMintDenied              []OnMintDenied
	onFundsWithdrawn          []OnFundsWithdrawn
	onPaused                  []OnPaused
	onUnpaused                []OnUnpaused
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{logger: slog.Default()}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnTierSet); ok {
		r.onTierSet = append(r.onTierSet, v)
	}
	if v, ok := p.(OnMaxMintPerWalletChanged); ok {
		r.onMaxMintPerWalletChanged = append(r.onMaxMintPerWalletChanged, v)
	}
	if v, ok := p.(OnTokenMinted); ok {
		r.onTokenMinted = append(r.onTokenMinted, v)
	}
	if v, ok := p.(OnBulkMinted); ok {
		r.onBulkMinted = append(r.onBulkMinted, v)
	}
	if v, ok := p.(OnMintDenied); ok {
		r.onMintDenied = append(r.onMintDenied, v)
	}
	if v, ok := p.(OnFundsWithdrawn); ok {
		r.onFundsWithdrawn = append(r.onFundsWithdrawn, v)
	}
	if v, ok := p.(OnPaused); ok {
		r.onPaused = append(r.onPaused, v)
	}
	if v, ok := p.(OnUnpaused); ok {
		r.onUnpaused = append(r.onUnpaused, v)
	}

	r.logger.Info("plugin registered", "name", p.Name())

	return nil
}

// Get returns a plugin by name, or nil.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTierSet emits a tier replacement event.
func (r *Registry) EmitTierSet(ctx context.Context, entry tier.Entry) {
	r.mu.RLock()
	plugins := r.onTierSet
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTierSet(ctx, entry)
		}); err != nil {
			r.logger.Warn("plugin OnTierSet failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitMaxMintPerWalletChanged emits a cap change event.
func (r *Registry) EmitMaxMintPerWalletChanged(ctx context.Context, previous, current uint64) {
	r.mu.RLock()
	plugins := r.onMaxMintPerWalletChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMaxMintPerWalletChanged(ctx, previous, current)
		}); err != nil {
			r.logger.Warn("plugin OnMaxMintPerWalletChanged failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTokenMinted emits a token minted event.
func (r *Registry) EmitTokenMinted(ctx context.Context, receipt *mint.Receipt) {
	r.mu.RLock()
	plugins := r.onTokenMinted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTokenMinted(ctx, receipt)
		}); err != nil {
			r.logger.Warn("plugin OnTokenMinted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitBulkMinted emits a bulk completion event.
func (r *Registry) EmitBulkMinted(ctx context.Context, batch *mint.Batch) {
	r.mu.RLock()
	plugins := r.onBulkMinted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBulkMinted(ctx, batch)
		}); err != nil {
			r.logger.Warn("plugin OnBulkMinted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitMintDenied emits a mint rejection event.
func (r *Registry) EmitMintDenied(ctx context.Context, payer, recipient types.Address, reason error) {
	r.mu.RLock()
	plugins := r.onMintDenied
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMintDenied(ctx, payer, recipient, reason)
		}); err != nil {
			r.logger.Warn("plugin OnMintDenied failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitFundsWithdrawn emits a withdrawal event.
func (r *Registry) EmitFundsWithdrawn(ctx context.Context, w *mint.Withdrawal) {
	r.mu.RLock()
	plugins := r.onFundsWithdrawn
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFundsWithdrawn(ctx, w)
		}); err != nil {
			r.logger.Warn("plugin OnFundsWithdrawn failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPaused emits a pause event.
func (r *Registry) EmitPaused(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onPaused
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaused(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnPaused failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitUnpaused emits an unpause event.
func (r *Registry) EmitUnpaused(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onUnpaused
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUnpaused(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnUnpaused failed", "plugin", p.Name(), "error", err)
		}
	}
}

// callWithTimeout bounds a hook call so a stalled plugin cannot wedge an
// engine operation.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
