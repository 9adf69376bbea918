package extension

import "github.com/xraph/mintgate/tier"

// Config holds the Mintgate extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.mintgate" or "mintgate" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// MaxMintPerWallet caps how many tokens one recipient may hold
	// (default: 20).
	MaxMintPerWallet uint64 `json:"max_mint_per_wallet" mapstructure:"max_mint_per_wallet" yaml:"max_mint_per_wallet"`

	// Strategy selects the tier range-resolution algorithm, "linear" or
	// "binary" (default: "linear").
	Strategy string `json:"strategy" mapstructure:"strategy" yaml:"strategy"`

	// Vault is the address that accumulates mint proceeds until withdrawal.
	Vault string `json:"vault" mapstructure:"vault" yaml:"vault"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxMintPerWallet: 20,
		Strategy:         string(tier.StrategyLinear),
		Vault:            "vault",
	}
}
