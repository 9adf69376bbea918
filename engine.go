package mintgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/xraph/mintgate/access"
	"github.com/xraph/mintgate/allocation"
	"github.com/xraph/mintgate/issuance"
	"github.com/xraph/mintgate/payment"
	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// DefaultMaxMintPerWallet is the per-recipient holding cap applied when
// neither an option nor persisted configuration overrides it.
const DefaultMaxMintPerWallet = 20

// Engine is the tiered token-sale and allocation engine. It owns the tier
// registry and composes pricing resolution, the allocation guard, payment
// collection, and issuance authorization into atomic single and bulk mint
// operations.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// mu guards the registry, the collaborator bindings, and the scalar
	// configuration. Mint operations read a consistent snapshot under RLock;
	// administrative mutations take the write lock.
	mu       sync.RWMutex
	registry *tier.Registry
	maxMint  uint64
	vault    types.Address
	payments payment.Ledger
	issuer   issuance.Ledger
	guard    *allocation.Guard
	roles    access.Provider

	paused  atomic.Bool
	minting atomic.Bool // in-progress flag for the mint operation class

	skipMigrate bool
}

// Option configures an Engine instance.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	plugins     []plugin.Plugin
	strategy    tier.Strategy
	maxMint     uint64
	vault       types.Address
	payments    payment.Ledger
	issuer      issuance.Ledger
	roles       access.Provider
	skipMigrate bool
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(c *config) { c.plugins = append(c.plugins, p) }
}

// WithStrategy selects the range-containment strategy for pricing
// resolution. Defaults to tier.StrategyLinear.
func WithStrategy(s tier.Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithMaxMintPerWallet sets the initial per-recipient holding cap.
// Persisted configuration loaded on Start takes precedence.
func WithMaxMintPerWallet(n uint64) Option {
	return func(c *config) { c.maxMint = n }
}

// WithVault sets the engine's account on the payment ledger. Payments are
// collected into this account and withdrawals sweep it.
func WithVault(addr types.Address) Option {
	return func(c *config) { c.vault = addr }
}

// WithPaymentLedger binds the fungible payment ledger.
func WithPaymentLedger(l payment.Ledger) Option {
	return func(c *config) { c.payments = l }
}

// WithIssuanceLedger binds the non-fungible issuance ledger.
func WithIssuanceLedger(l issuance.Ledger) Option {
	return func(c *config) { c.issuer = l }
}

// WithAccessProvider binds the capability-check provider gating privileged
// operations.
func WithAccessProvider(p access.Provider) Option {
	return func(c *config) { c.roles = p }
}

// WithoutMigrate skips store migration on Start. Use when migrations are
// managed externally.
func WithoutMigrate() Option {
	return func(c *config) { c.skipMigrate = true }
}

// New creates an Engine. Collaborators not supplied via options default to
// empty in-memory implementations; the default access provider grants no
// roles, so every privileged operation is denied until a real provider is
// bound.
func New(s store.Store, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidInput)
	}

	cfg := config{
		logger:   slog.Default(),
		strategy: tier.StrategyLinear,
		maxMint:  DefaultMaxMintPerWallet,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	registry, err := tier.NewRegistry(cfg.strategy)
	if err != nil {
		return nil, err
	}

	if cfg.payments == nil {
		cfg.payments = payment.NewMemoryLedger()
	}
	if cfg.issuer == nil {
		cfg.issuer = issuance.NewMemoryLedger()
	}
	if cfg.roles == nil {
		cfg.roles = access.NewStaticProvider(access.RoleManager)
	}

	e := &Engine{
		store:    s,
		plugins:  plugin.NewRegistry().WithLogger(cfg.logger),
		logger:   cfg.logger,
		registry: registry,
		maxMint:  cfg.maxMint,
		vault:    cfg.vault,
		payments: cfg.payments,
		issuer:   cfg.issuer,
		guard:    allocation.NewGuard(cfg.issuer),
		roles:    cfg.roles,

		skipMigrate: cfg.skipMigrate,
	}

	for _, p := range cfg.plugins {
		if err := e.plugins.Register(p); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Start migrates the store, loads the persisted tier snapshot and scalar
// configuration, and notifies plugins. The engine is usable after Start
// returns without error.
func (e *Engine) Start(ctx context.Context) error {
	if !e.skipMigrate {
		if err := e.store.Migrate(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
		}
	}

	entries, err := e.store.LoadTiers(ctx)
	if err != nil {
		return fmt.Errorf("mintgate: load tier snapshot: %w", err)
	}

	e.mu.Lock()
	if err := e.registry.Restore(entries); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("mintgate: restore tier snapshot: %w", err)
	}
	cfg, err := e.store.LoadConfig(ctx)
	switch {
	case err == nil:
		e.maxMint = cfg.MaxMintPerWallet
		e.paused.Store(cfg.Paused)
	case errors.Is(err, ErrConfigNotFound):
		// First start: keep constructor values.
	default:
		e.mu.Unlock()
		return fmt.Errorf("mintgate: load config: %w", err)
	}
	maxMint := e.maxMint
	e.mu.Unlock()

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("mintgate started",
		"tiers", len(entries),
		"max_mint_per_wallet", maxMint,
		"paused", e.paused.Load(),
		"strategy", string(e.registry.Strategy()),
	)

	return nil
}

// Stop notifies plugins and closes the store.
func (e *Engine) Stop() error {
	e.plugins.EmitShutdown(context.Background())
	return e.store.Close()
}

// Paused reports whether minting is currently paused.
func (e *Engine) Paused() bool { return e.paused.Load() }

// MaxMintPerWallet returns the current per-recipient holding cap.
func (e *Engine) MaxMintPerWallet() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxMint
}

// Vault returns the engine's account on the payment ledger.
func (e *Engine) Vault() types.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.vault
}

// persistConfig writes the current scalar configuration through to the
// store. Callers hold no lock; the snapshot is taken under RLock.
func (e *Engine) persistConfig(ctx context.Context) error {
	e.mu.RLock()
	cfg := store.Config{
		MaxMintPerWallet: e.maxMint,
		Paused:           e.paused.Load(),
	}
	e.mu.RUnlock()
	return e.store.SaveConfig(ctx, cfg)
}
