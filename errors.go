package mintgate

import (
	"errors"
	"fmt"

	"github.com/xraph/mintgate/allocation"
	"github.com/xraph/mintgate/tier"
)

// Sentinel errors for common failure scenarios. Every engine operation that
// fails does so with zero externally visible mutation; the specific kind
// tells callers whether to fix funding, fix input, or wait until unpaused.
var (
	// General errors
	ErrInvalidInput = errors.New("mintgate: invalid input")
	ErrUnauthorized = errors.New("mintgate: unauthorized")
	ErrNoCaller     = errors.New("mintgate: no caller identity in context")

	// Tier configuration and resolution errors, surfaced from the tier
	// registry.
	ErrInvalidTier        = tier.ErrInvalidTier
	ErrInvalidArrayLength = tier.ErrInvalidArrayLength
	ErrInvalidRange       = tier.ErrInvalidRange
	ErrUnsortedRanges     = tier.ErrUnsortedRanges

	// Allocation errors
	ErrMaxMintPerWalletExceeded = allocation.ErrCapExceeded

	// Payment errors
	ErrInsufficientBalance = errors.New("mintgate: insufficient balance")
	ErrNoAllowance         = errors.New("mintgate: no allowance")
	ErrPaymentFailed       = errors.New("mintgate: payment transfer failed")

	// Issuance errors
	ErrAlreadyMinted = errors.New("mintgate: identifier already minted")
	ErrMintFailed    = errors.New("mintgate: issuance failed")

	// Operational gates
	ErrPaused         = errors.New("mintgate: minting is paused")
	ErrMintInProgress = errors.New("mintgate: mint operation already in progress")

	// Withdrawal errors
	ErrZeroBalance    = errors.New("mintgate: zero balance")
	ErrWithdrawFailed = errors.New("mintgate: withdrawal transfer failed")

	// Store errors
	ErrReceiptNotFound    = errors.New("mintgate: receipt not found")
	ErrWithdrawalNotFound = errors.New("mintgate: withdrawal not found")
	ErrConfigNotFound     = errors.New("mintgate: config not found")
	ErrStoreNotReady      = errors.New("mintgate: store not ready")
	ErrStoreClosed        = errors.New("mintgate: store is closed")
	ErrMigrationFailed    = errors.New("mintgate: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("mintgate: validation failed for %s: %s", e.Field, e.Message)
}
