package mintgate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/access"
	"github.com/xraph/mintgate/issuance"
	"github.com/xraph/mintgate/payment"
	"github.com/xraph/mintgate/store/memory"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

const (
	admin = types.Address("admin")
	buyer = types.Address("buyer")
	vault = types.Address("vault")
)

// fixture bundles an engine with its collaborators for direct inspection.
type fixture struct {
	engine   *mintgate.Engine
	store    *memory.Store
	payments *payment.MemoryLedger
	tokens   *issuance.MemoryLedger
	roles    *access.StaticProvider
}

func newFixture(t *testing.T, opts ...mintgate.Option) *fixture {
	t.Helper()

	f := &fixture{
		store:    memory.New(),
		payments: payment.NewMemoryLedger(),
		tokens:   issuance.NewMemoryLedger(),
		roles:    access.NewStaticProvider(access.RoleManager, admin),
	}

	all := append([]mintgate.Option{
		mintgate.WithVault(vault),
		mintgate.WithPaymentLedger(f.payments),
		mintgate.WithIssuanceLedger(f.tokens),
		mintgate.WithAccessProvider(f.roles),
	}, opts...)

	eng, err := mintgate.New(f.store, all...)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = eng.Stop() })

	f.engine = eng
	return f
}

// adminCtx returns a context authenticated as the manager account.
func adminCtx() context.Context {
	return mintgate.WithCaller(context.Background(), admin)
}

// buyerCtx returns a context authenticated as a regular buyer.
func buyerCtx() context.Context {
	return mintgate.WithCaller(context.Background(), buyer)
}

// ranges is shorthand for a single-interval range list.
func ranges(start, end uint64) []tier.Range {
	return []tier.Range{{Start: types.NewTokenID(start), End: types.NewTokenID(end)}}
}

// configureTier sets a tier or fails the test.
func (f *fixture) configureTier(t *testing.T, index uint8, price uint64, rs []tier.Range) {
	t.Helper()
	if err := f.engine.SetTier(adminCtx(), index, types.NewAmount(price), rs); err != nil {
		t.Fatalf("SetTier(%d): %v", index, err)
	}
}

// fund credits the buyer and approves the vault for the same amount.
func (f *fixture) fund(account types.Address, amount uint64) {
	f.payments.Credit(account, types.NewAmount(amount))
	f.payments.Approve(account, vault, types.NewAmount(amount))
}

func TestNewRequiresStore(t *testing.T) {
	_, err := mintgate.New(nil)
	if !errors.Is(err, mintgate.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestNewDefaults(t *testing.T) {
	eng, err := mintgate.New(memory.New())
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer eng.Stop()

	if eng.MaxMintPerWallet() != mintgate.DefaultMaxMintPerWallet {
		t.Errorf("cap: got %d, want %d", eng.MaxMintPerWallet(), mintgate.DefaultMaxMintPerWallet)
	}
	if eng.Paused() {
		t.Error("fresh engine should not be paused")
	}

	// The default access provider grants nothing, so privileged calls fail.
	err = eng.SetMaxMintPerWallet(adminCtx(), 5)
	if !errors.Is(err, mintgate.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestStartRestoresPersistedState(t *testing.T) {
	s := memory.New()

	roles := access.NewStaticProvider(access.RoleManager, admin)
	eng, err := mintgate.New(s,
		mintgate.WithVault(vault),
		mintgate.WithAccessProvider(roles),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := eng.SetTier(adminCtx(), 1, types.NewAmount(100), ranges(1, 500)); err != nil {
		t.Fatal(err)
	}
	if err := eng.SetMaxMintPerWallet(adminCtx(), 7); err != nil {
		t.Fatal(err)
	}
	if err := eng.Pause(adminCtx()); err != nil {
		t.Fatal(err)
	}

	// A second engine over the same store picks up tiers, cap, and pause.
	// The first is abandoned rather than stopped so the shared store stays
	// open.
	reborn, err := mintgate.New(s,
		mintgate.WithVault(vault),
		mintgate.WithAccessProvider(roles),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := reborn.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer reborn.Stop()

	if reborn.MaxMintPerWallet() != 7 {
		t.Errorf("cap: got %d, want 7", reborn.MaxMintPerWallet())
	}
	if !reborn.Paused() {
		t.Error("pause flag should survive restart")
	}
	price, err := reborn.GetTokenPrice(types.NewTokenID(42))
	if err != nil {
		t.Fatal(err)
	}
	if !price.Equal(types.NewAmount(100)) {
		t.Errorf("restored price: got %s, want 100", price)
	}
}

func TestOptionsApply(t *testing.T) {
	f := newFixture(t,
		mintgate.WithMaxMintPerWallet(3),
		mintgate.WithStrategy(tier.StrategyBinary),
	)

	if f.engine.MaxMintPerWallet() != 3 {
		t.Errorf("cap: got %d, want 3", f.engine.MaxMintPerWallet())
	}
	if f.engine.Vault() != vault {
		t.Errorf("vault: got %s", f.engine.Vault())
	}
}

func TestNewRejectsBadStrategy(t *testing.T) {
	_, err := mintgate.New(memory.New(), mintgate.WithStrategy(tier.Strategy("quantum")))
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}
