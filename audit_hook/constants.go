package audithook

// Action constants for audit events.
const (
	// Tier configuration actions
	ActionTierSet    = "tier.set"
	ActionCapChanged = "cap.changed"

	// Mint actions
	ActionTokenMinted = "token.minted"
	ActionBulkMinted  = "bulk.minted"
	ActionMintDenied  = "mint.denied"

	// Treasury actions
	ActionFundsWithdrawn = "funds.withdrawn"

	// Pause actions
	ActionPaused   = "sale.paused"
	ActionUnpaused = "sale.unpaused"
)

// Resource constants for audit events.
const (
	ResourceTier       = "tier"
	ResourceConfig     = "config"
	ResourceToken      = "token"
	ResourceBatch      = "batch"
	ResourceWithdrawal = "withdrawal"
	ResourceSale       = "sale"
)

// Category constants for audit events.
const (
	CategoryConfiguration = "configuration"
	CategoryMinting       = "minting"
	CategoryTreasury      = "treasury"
	CategoryAccess        = "access"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
