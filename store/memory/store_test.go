package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

func entry(index uint8, price uint64, start, end uint64) tier.Entry {
	return tier.Entry{
		Index: index,
		Tier: tier.Tier{
			Price: types.NewAmount(price),
			Ranges: []tier.Range{
				{Start: types.NewTokenID(start), End: types.NewTokenID(end)},
			},
		},
	}
}

func receipt(recipient, payer types.Address, token uint64) *mint.Receipt {
	return &mint.Receipt{
		Entity:    types.NewEntity(),
		ID:        id.NewReceiptID(),
		Payer:     payer,
		Recipient: recipient,
		TokenID:   types.NewTokenID(token),
		TierIndex: 1,
		Price:     types.NewAmount(100),
	}
}

func TestStoreTiers(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.SaveTier(ctx, entry(1, 100, 1, 500)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTiers(ctx, []tier.Entry{
		entry(2, 200, 501, 1000),
		entry(3, 300, 1001, 1500),
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := s.LoadTiers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Re-saving an index replaces, not appends.
	if err := s.SaveTier(ctx, entry(1, 111, 1, 400)); err != nil {
		t.Fatal(err)
	}
	entries, err = s.LoadTiers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("after replace: got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Index == 1 && !e.Price.Equal(types.NewAmount(111)) {
			t.Errorf("tier 1 price: got %s, want 111", e.Price)
		}
	}
}

func TestStoreTiersReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.SaveTier(ctx, entry(1, 100, 1, 500)); err != nil {
		t.Fatal(err)
	}

	entries, err := s.LoadTiers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	entries[0].Ranges[0] = tier.Range{Start: types.NewTokenID(9), End: types.NewTokenID(9)}

	fresh, err := s.LoadTiers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !fresh[0].Ranges[0].Start.Equal(types.NewTokenID(1)) {
		t.Error("mutating a loaded entry should not affect stored state")
	}
}

func TestStoreConfig(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.LoadConfig(ctx); !errors.Is(err, mintgate.ErrConfigNotFound) {
		t.Fatalf("fresh store: got %v, want ErrConfigNotFound", err)
	}

	want := store.Config{MaxMintPerWallet: 10, Paused: true}
	if err := s.SaveConfig(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}
}

func TestStoreReceipts(t *testing.T) {
	ctx := context.Background()
	s := New()

	r1 := receipt("alice", "alice", 1)
	r2 := receipt("bob", "alice", 2)
	r3 := receipt("bob", "bob", 3)
	if err := s.SaveReceipts(ctx, []*mint.Receipt{r1, r2, r3}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetReceipt(ctx, r2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TokenID.Equal(r2.TokenID) {
		t.Errorf("token: got %s, want %s", got.TokenID, r2.TokenID)
	}

	if _, err := s.GetReceipt(ctx, id.NewReceiptID()); !errors.Is(err, mintgate.ErrReceiptNotFound) {
		t.Fatalf("unknown receipt: got %v, want ErrReceiptNotFound", err)
	}

	tests := []struct {
		name string
		opts mint.ListOpts
		want int
	}{
		{"all", mint.ListOpts{}, 3},
		{"by recipient", mint.ListOpts{Recipient: "bob"}, 2},
		{"by payer", mint.ListOpts{Payer: "alice"}, 2},
		{"recipient and payer", mint.ListOpts{Recipient: "bob", Payer: "bob"}, 1},
		{"limit", mint.ListOpts{Limit: 2}, 2},
		{"offset", mint.ListOpts{Offset: 2}, 1},
		{"offset past end", mint.ListOpts{Offset: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListReceipts(ctx, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d receipts, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStoreWithdrawals(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := uint64(1); i <= 3; i++ {
		w := &mint.Withdrawal{
			Entity:   types.NewEntity(),
			ID:       id.NewWithdrawalID(),
			Treasury: "treasury",
			Amount:   types.NewAmount(i * 100),
		}
		if err := s.SaveWithdrawal(ctx, w); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListWithdrawals(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d withdrawals, want 3", len(all))
	}
	// Insertion order is preserved.
	if !all[0].Amount.Equal(types.NewAmount(100)) {
		t.Errorf("first amount: got %s, want 100", all[0].Amount)
	}

	window, err := s.ListWithdrawals(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 1 || !window[0].Amount.Equal(types.NewAmount(200)) {
		t.Errorf("window: got %+v", window)
	}
}

func TestStoreClose(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if err := s.Ping(ctx); !errors.Is(err, mintgate.ErrStoreClosed) {
		t.Errorf("Ping after close: got %v, want ErrStoreClosed", err)
	}
	if err := s.SaveTier(ctx, entry(1, 100, 1, 2)); !errors.Is(err, mintgate.ErrStoreClosed) {
		t.Errorf("SaveTier after close: got %v, want ErrStoreClosed", err)
	}
	if _, err := s.LoadTiers(ctx); !errors.Is(err, mintgate.ErrStoreClosed) {
		t.Errorf("LoadTiers after close: got %v, want ErrStoreClosed", err)
	}
}
