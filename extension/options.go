package extension

import (
	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/store"
)

// Option configures the Mintgate Forge extension.
type Option func(*Extension)

// WithStore sets the store for the mintgate engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes a mintgate.Option through to the underlying engine.
func WithEngineOption(opt mintgate.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a mintgate plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, mintgate.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithMaxMintPerWallet sets the per-recipient holding cap.
func WithMaxMintPerWallet(limit uint64) Option {
	return func(e *Extension) { e.config.MaxMintPerWallet = limit }
}

// WithStrategy sets the tier range-resolution strategy.
func WithStrategy(strategy string) Option {
	return func(e *Extension) { e.config.Strategy = strategy }
}

// WithVault sets the address that accumulates mint proceeds.
func WithVault(vault string) Option {
	return func(e *Extension) { e.config.Vault = vault }
}
