// Package mintgate provides a tiered, access-controlled token-sale and
// allocation engine for Go applications.
//
// Mintgate is designed as a library, not a service. Given a numeric token
// identifier, it resolves the owning price tier, charges a fungible payment
// ledger at that tier's price, enforces a per-recipient holding cap, and
// authorizes issuance on a non-fungible ledger, atomically for single
// tokens and for batches with one aggregate payment. It provides:
//
//   - A fixed-capacity tier registry over sparse 256-bit identifier ranges
//   - Linear-scan and binary-search range resolution strategies
//   - All-or-nothing batch tier configuration and bulk minting
//   - Per-wallet allocation caps checked before any funds move
//   - Pluggable payment, issuance, and access-control collaborators
//   - Durable state snapshots via memory, SQLite, PostgreSQL, or MongoDB stores
//   - Lifecycle hooks for tier changes, mints, and treasury withdrawals
//
// # Quick Start
//
// Create an engine with your preferred store:
//
//	import (
//	    "github.com/xraph/mintgate"
//	    "github.com/xraph/mintgate/store/memory"
//	)
//
//	eng, err := mintgate.New(memory.New(),
//	    mintgate.WithVault("vault"),
//	    mintgate.WithPaymentLedger(payments),
//	    mintgate.WithIssuanceLedger(tokens),
//	    mintgate.WithAccessProvider(roles),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop()
//
// Configure tiers (caller must hold the manager role):
//
//	ctx = mintgate.WithCaller(ctx, "admin")
//	err = eng.SetTier(ctx, 1, types.NewAmount(100), []tier.Range{
//	    {Start: types.NewTokenID(1), End: types.NewTokenID(500)},
//	})
//
// Mint (caller pays):
//
//	ctx = mintgate.WithCaller(ctx, "buyer")
//	receipt, err := eng.Mint(ctx, "buyer", types.NewTokenID(42))
package mintgate
