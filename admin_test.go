package mintgate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/issuance"
	"github.com/xraph/mintgate/payment"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

func TestSetTier(t *testing.T) {
	f := newFixture(t)

	if err := f.engine.SetTier(adminCtx(), 1, types.NewAmount(100), ranges(1, 500)); err != nil {
		t.Fatal(err)
	}

	got, err := f.engine.GetTier(1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(types.NewAmount(100)) || len(got.Ranges) != 1 {
		t.Errorf("tier: %+v", got)
	}

	// A second write replaces the tier wholesale.
	if err := f.engine.SetTier(adminCtx(), 1, types.NewAmount(250), ranges(1000, 2000)); err != nil {
		t.Fatal(err)
	}
	got, err = f.engine.GetTier(1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(types.NewAmount(250)) {
		t.Errorf("price after replace: got %s, want 250", got.Price)
	}
	if !got.Ranges[0].Start.Equal(types.NewTokenID(1000)) {
		t.Error("old ranges should be gone after replace")
	}

	// The old range no longer resolves.
	if _, err := f.engine.GetTokenPrice(types.NewTokenID(42)); !errors.Is(err, mintgate.ErrInvalidTier) {
		t.Errorf("stale range: got %v, want ErrInvalidTier", err)
	}
	price, err := f.engine.GetTokenPrice(types.NewTokenID(1500))
	if err != nil {
		t.Fatal(err)
	}
	if !price.Equal(types.NewAmount(250)) {
		t.Errorf("new range price: got %s", price)
	}
}

func TestSetTierValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		index  uint8
		ranges []tier.Range
		want   error
	}{
		{"index at capacity", mintgate.MaxTiers, ranges(1, 10), mintgate.ErrInvalidTier},
		{"index over capacity", mintgate.MaxTiers + 1, ranges(1, 10), mintgate.ErrInvalidTier},
		{"inverted range", 1, ranges(10, 1), mintgate.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.engine.SetTier(adminCtx(), tt.index, types.NewAmount(1), tt.ranges)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	// A zero price is not an error: it clears the tier.
	if err := f.engine.SetTier(adminCtx(), 1, types.NewAmount(1), ranges(1, 10)); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.SetTier(adminCtx(), 1, types.ZeroAmount(), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.GetTokenPrice(types.NewTokenID(5)); !errors.Is(err, mintgate.ErrInvalidTier) {
		t.Errorf("cleared tier should not resolve: got %v", err)
	}
}

func TestSetTierUnsortedRangesUnderBinary(t *testing.T) {
	f := newFixture(t, mintgate.WithStrategy(tier.StrategyBinary))

	unsorted := []tier.Range{
		{Start: types.NewTokenID(100), End: types.NewTokenID(200)},
		{Start: types.NewTokenID(50), End: types.NewTokenID(90)},
	}
	err := f.engine.SetTier(adminCtx(), 1, types.NewAmount(1), unsorted)
	if !errors.Is(err, mintgate.ErrUnsortedRanges) {
		t.Fatalf("got %v, want ErrUnsortedRanges", err)
	}

	sorted := []tier.Range{
		{Start: types.NewTokenID(50), End: types.NewTokenID(90)},
		{Start: types.NewTokenID(100), End: types.NewTokenID(200)},
	}
	if err := f.engine.SetTier(adminCtx(), 1, types.NewAmount(1), sorted); err != nil {
		t.Fatal(err)
	}
	price, err := f.engine.GetTokenPrice(types.NewTokenID(150))
	if err != nil {
		t.Fatal(err)
	}
	if !price.Equal(types.NewAmount(1)) {
		t.Errorf("price: got %s, want 1", price)
	}
}

func TestSetTiers(t *testing.T) {
	f := newFixture(t)

	indexes := []uint8{1, 2}
	prices := []types.Amount{types.NewAmount(100), types.NewAmount(200)}
	rangeLists := [][]tier.Range{ranges(1, 500), ranges(501, 1000)}
	if err := f.engine.SetTiers(adminCtx(), indexes, prices, rangeLists); err != nil {
		t.Fatal(err)
	}
	for i, index := range indexes {
		got, err := f.engine.GetTier(index)
		if err != nil {
			t.Fatalf("tier %d: %v", index, err)
		}
		if !got.Price.Equal(prices[i]) {
			t.Errorf("tier %d price: got %s, want %s", index, got.Price, prices[i])
		}
	}

	// A batch with one invalid entry changes nothing.
	err := f.engine.SetTiers(adminCtx(),
		[]uint8{1, 3},
		[]types.Amount{types.NewAmount(999), types.NewAmount(300)},
		[][]tier.Range{ranges(1, 500), ranges(3000, 2000)},
	)
	if !errors.Is(err, mintgate.ErrInvalidRange) {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
	got, err := f.engine.GetTier(1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(types.NewAmount(100)) {
		t.Errorf("tier 1 after failed batch: got %s, want 100", got.Price)
	}
	got, err = f.engine.GetTier(3)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsSet() {
		t.Error("tier 3 should stay unset after a failed batch")
	}

	// Mismatched slice lengths are rejected before any validation.
	err = f.engine.SetTiers(adminCtx(), []uint8{1, 2}, []types.Amount{types.NewAmount(1)}, [][]tier.Range{ranges(1, 10)})
	if !errors.Is(err, mintgate.ErrInvalidArrayLength) {
		t.Errorf("got %v, want ErrInvalidArrayLength", err)
	}
}

func TestAdminAuthorization(t *testing.T) {
	f := newFixture(t)
	f.configureTier(t, 1, 100, ranges(1, 500))

	ops := []struct {
		name string
		call func(ctx context.Context) error
	}{
		{"SetTier", func(ctx context.Context) error {
			return f.engine.SetTier(ctx, 2, types.NewAmount(1), ranges(501, 600))
		}},
		{"SetTiers", func(ctx context.Context) error {
			return f.engine.SetTiers(ctx, []uint8{2}, []types.Amount{types.NewAmount(1)}, [][]tier.Range{ranges(501, 600)})
		}},
		{"SetMaxMintPerWallet", func(ctx context.Context) error {
			return f.engine.SetMaxMintPerWallet(ctx, 5)
		}},
		{"SetPaymentLedger", func(ctx context.Context) error {
			return f.engine.SetPaymentLedger(ctx, payment.NewMemoryLedger())
		}},
		{"SetIssuanceLedger", func(ctx context.Context) error {
			return f.engine.SetIssuanceLedger(ctx, issuance.NewMemoryLedger())
		}},
		{"WithdrawFunds", func(ctx context.Context) error {
			_, err := f.engine.WithdrawFunds(ctx, types.Address("treasury"))
			return err
		}},
		{"Pause", func(ctx context.Context) error {
			return f.engine.Pause(ctx)
		}},
		{"Unpause", func(ctx context.Context) error {
			return f.engine.Unpause(ctx)
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			if err := op.call(buyerCtx()); !errors.Is(err, mintgate.ErrUnauthorized) {
				t.Errorf("non-manager: got %v, want ErrUnauthorized", err)
			}
			if err := op.call(context.Background()); !errors.Is(err, mintgate.ErrNoCaller) {
				t.Errorf("no caller: got %v, want ErrNoCaller", err)
			}
		})
	}

	// Read-only queries need no caller at all.
	if _, err := f.engine.GetTier(1); err != nil {
		t.Errorf("GetTier: %v", err)
	}
	if _, err := f.engine.GetTokenPrice(types.NewTokenID(42)); err != nil {
		t.Errorf("GetTokenPrice: %v", err)
	}
}

func TestSetMaxMintPerWallet(t *testing.T) {
	f := newFixture(t)

	if err := f.engine.SetMaxMintPerWallet(adminCtx(), 3); err != nil {
		t.Fatal(err)
	}
	if got := f.engine.MaxMintPerWallet(); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}

	// The new cap survives a restart over the same store.
	roles := f.roles
	second, err := mintgate.New(f.store,
		mintgate.WithAccessProvider(roles),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := second.MaxMintPerWallet(); got != 3 {
		t.Errorf("after restart: got %d, want 3", got)
	}
}

func TestWithdrawFunds(t *testing.T) {
	f := newFixture(t)
	f.configureTier(t, 1, 100, ranges(1, 500))
	f.fund(buyer, 300)

	treasury := types.Address("treasury")

	t.Run("zero treasury", func(t *testing.T) {
		_, err := f.engine.WithdrawFunds(adminCtx(), types.ZeroAddress)
		if !errors.Is(err, mintgate.ErrInvalidInput) {
			t.Errorf("got %v, want ErrInvalidInput", err)
		}
	})

	t.Run("empty vault", func(t *testing.T) {
		_, err := f.engine.WithdrawFunds(adminCtx(), treasury)
		if !errors.Is(err, mintgate.ErrZeroBalance) {
			t.Errorf("got %v, want ErrZeroBalance", err)
		}
	})

	t.Run("sweeps the full balance", func(t *testing.T) {
		for i := uint64(1); i <= 3; i++ {
			if _, err := f.engine.Mint(buyerCtx(), buyer, types.NewTokenID(i)); err != nil {
				t.Fatal(err)
			}
		}

		w, err := f.engine.WithdrawFunds(adminCtx(), treasury)
		if err != nil {
			t.Fatal(err)
		}
		if !w.Amount.Equal(types.NewAmount(300)) {
			t.Errorf("withdrawal amount: got %s, want 300", w.Amount)
		}
		if w.Treasury != treasury {
			t.Errorf("treasury: got %s", w.Treasury)
		}

		if b, _ := f.payments.BalanceOf(context.Background(), vault); !b.IsZero() {
			t.Errorf("vault after sweep: got %s, want 0", b)
		}
		if b, _ := f.payments.BalanceOf(context.Background(), treasury); !b.Equal(types.NewAmount(300)) {
			t.Errorf("treasury after sweep: got %s, want 300", b)
		}

		// The sweep left a record behind.
		list, err := f.engine.ListWithdrawals(context.Background(), 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || !list[0].Amount.Equal(types.NewAmount(300)) {
			t.Errorf("withdrawal list: %+v", list)
		}
	})
}

func TestPauseTransitions(t *testing.T) {
	f := newFixture(t)

	if f.engine.Paused() {
		t.Fatal("engine should start unpaused")
	}
	if err := f.engine.Pause(adminCtx()); err != nil {
		t.Fatal(err)
	}
	if !f.engine.Paused() {
		t.Fatal("engine should be paused")
	}

	// Pausing twice is a no-op, not an error.
	if err := f.engine.Pause(adminCtx()); err != nil {
		t.Errorf("double pause: %v", err)
	}

	if err := f.engine.Unpause(adminCtx()); err != nil {
		t.Fatal(err)
	}
	if f.engine.Paused() {
		t.Fatal("engine should be unpaused")
	}
	if err := f.engine.Unpause(adminCtx()); err != nil {
		t.Errorf("double unpause: %v", err)
	}
}

func TestSetLedgers(t *testing.T) {
	f := newFixture(t)
	f.configureTier(t, 1, 100, ranges(1, 500))

	if err := f.engine.SetPaymentLedger(adminCtx(), nil); !errors.Is(err, mintgate.ErrInvalidInput) {
		t.Errorf("nil payment ledger: got %v, want ErrInvalidInput", err)
	}
	if err := f.engine.SetIssuanceLedger(adminCtx(), nil); !errors.Is(err, mintgate.ErrInvalidInput) {
		t.Errorf("nil issuance ledger: got %v, want ErrInvalidInput", err)
	}

	// After a rebind, minting runs against the new ledgers.
	payments := payment.NewMemoryLedger()
	tokens := issuance.NewMemoryLedger()
	if err := f.engine.SetPaymentLedger(adminCtx(), payments); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.SetIssuanceLedger(adminCtx(), tokens); err != nil {
		t.Fatal(err)
	}

	payments.Credit(buyer, types.NewAmount(100))
	payments.Approve(buyer, vault, types.NewAmount(100))
	if _, err := f.engine.Mint(buyerCtx(), buyer, types.NewTokenID(1)); err != nil {
		t.Fatal(err)
	}
	if owner := tokens.OwnerOf(types.NewTokenID(1)); owner != buyer {
		t.Errorf("owner on rebound ledger: got %s", owner)
	}
	if minted, _ := f.tokens.Minted(context.Background(), types.NewTokenID(1)); minted {
		t.Error("original ledger should be untouched after rebind")
	}
}
