package mintgate_test

import (
	"context"
	"log"
	"testing"

	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/access"
	"github.com/xraph/mintgate/issuance"
	"github.com/xraph/mintgate/payment"
	"github.com/xraph/mintgate/store/memory"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from the package documentation
	t.Run("QuickStartExample", func(t *testing.T) {
		// Collaborators (memory implementations for demo, back them with real
		// ledgers in production)
		payments := payment.NewMemoryLedger()
		tokens := issuance.NewMemoryLedger()
		roles := access.NewStaticProvider(access.RoleManager, "admin")

		// Create the engine with your preferred store
		eng, err := mintgate.New(memory.New(),
			mintgate.WithVault("vault"),
			mintgate.WithPaymentLedger(payments),
			mintgate.WithIssuanceLedger(tokens),
			mintgate.WithAccessProvider(roles),
		)
		if err != nil {
			t.Fatal(err)
		}

		// Start the engine
		ctx := context.Background()
		if err := eng.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer eng.Stop()

		// Configure a tier (caller must hold the manager role)
		ctx = mintgate.WithCaller(ctx, "admin")
		err = eng.SetTier(ctx, 1, types.NewAmount(100), []tier.Range{
			{Start: types.NewTokenID(1), End: types.NewTokenID(500)},
		})
		if err != nil {
			t.Fatal(err)
		}

		// Fund the buyer and approve the vault to spend
		payments.Credit("buyer", types.NewAmount(100))
		payments.Approve("buyer", "vault", types.NewAmount(100))

		// Mint (caller pays)
		ctx = mintgate.WithCaller(ctx, "buyer")
		receipt, err := eng.Mint(ctx, "buyer", types.NewTokenID(42))
		if err != nil {
			t.Fatal(err)
		}

		log.Printf("minted %s at price %s\n", receipt.TokenID, receipt.Price)
	})

	// Test Amount type examples
	t.Run("AmountExamples", func(t *testing.T) {
		// Constructors
		_ = types.NewAmount(100)
		_ = types.ZeroAmount()
		a, err := types.ParseAmount("0xde0b6b3a7640000") // 10^18
		if err != nil {
			t.Fatal(err)
		}
		_ = types.MustAmount("1000000000000000000")

		// Arithmetic
		a1 := types.NewAmount(100)
		a2 := types.NewAmount(200)
		_ = a1.Add(a2)
		_ = a2.Sub(a1)
		_ = a1.Mul(3)

		// Comparison
		if a1.Cmp(a2) < 0 {
			// a1 is less than a2
		}

		// Formatting
		_ = a.String() // decimal
	})

	// Test TokenID examples
	t.Run("TokenIDExamples", func(t *testing.T) {
		_ = types.NewTokenID(42)
		id, err := types.ParseTokenID("115792089237316195423570985008687907853269984665640564039457584007913129639935")
		if err != nil {
			t.Fatal(err)
		}
		_ = id.String()
	})
}
