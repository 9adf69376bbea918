// Package sqlite provides a Store implementation backed by SQLite via the
// Grove ORM.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/mint"
	mintgatestore "github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/tier"
)

// compile-time interface check
var _ mintgatestore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("mintgate/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("mintgate/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Tier snapshot ====================

func (s *Store) SaveTier(ctx context.Context, entry tier.Entry) error {
	m := toTierModel(entry)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(tier_index) DO UPDATE").
		Set("price = EXCLUDED.price").
		Set("ranges = EXCLUDED.ranges").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// SaveTiers writes all entries in one upsert statement so the snapshot
// either fully lands or not at all.
func (s *Store) SaveTiers(ctx context.Context, entries []tier.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]tierModel, len(entries))
	for i, entry := range entries {
		models[i] = *toTierModel(entry)
	}
	_, err := s.sdb.NewInsert(&models).
		OnConflict("(tier_index) DO UPDATE").
		Set("price = EXCLUDED.price").
		Set("ranges = EXCLUDED.ranges").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) LoadTiers(ctx context.Context) ([]tier.Entry, error) {
	var models []tierModel
	if err := s.sdb.NewSelect(&models).OrderExpr("tier_index ASC").Scan(ctx); err != nil {
		return nil, err
	}

	entries := make([]tier.Entry, len(models))
	for i := range models {
		entry, err := fromTierModel(&models[i])
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return entries, nil
}

// ==================== Scalar configuration ====================

func (s *Store) SaveConfig(ctx context.Context, cfg mintgatestore.Config) error {
	m := &configModel{
		ID:               configRowID,
		MaxMintPerWallet: int64(cfg.MaxMintPerWallet),
		Paused:           cfg.Paused,
		UpdatedAt:        now(),
	}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("max_mint_per_wallet = EXCLUDED.max_mint_per_wallet").
		Set("paused = EXCLUDED.paused").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) LoadConfig(ctx context.Context) (*mintgatestore.Config, error) {
	m := new(configModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", configRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mintgate.ErrConfigNotFound
		}
		return nil, err
	}
	return &mintgatestore.Config{
		MaxMintPerWallet: uint64(m.MaxMintPerWallet),
		Paused:           m.Paused,
	}, nil
}

// ==================== Receipt log ====================

// SaveReceipts appends all receipts in one insert statement so a batch
// either fully lands or not at all.
func (s *Store) SaveReceipts(ctx context.Context, receipts []*mint.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	models := make([]receiptModel, len(receipts))
	for i, r := range receipts {
		models[i] = *toReceiptModel(r)
	}
	_, err := s.sdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) GetReceipt(ctx context.Context, receiptID id.ReceiptID) (*mint.Receipt, error) {
	m := new(receiptModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", receiptID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mintgate.ErrReceiptNotFound
		}
		return nil, err
	}
	return fromReceiptModel(m)
}

func (s *Store) ListReceipts(ctx context.Context, opts mint.ListOpts) ([]*mint.Receipt, error) {
	var models []receiptModel
	q := s.sdb.NewSelect(&models)

	if !opts.Recipient.IsZero() {
		q = q.Where("recipient = ?", opts.Recipient.String())
	}
	if !opts.Payer.IsZero() {
		q = q.Where("payer = ?", opts.Payer.String())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*mint.Receipt, len(models))
	for i := range models {
		r, err := fromReceiptModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

// ==================== Withdrawal log ====================

func (s *Store) SaveWithdrawal(ctx context.Context, w *mint.Withdrawal) error {
	m := toWithdrawalModel(w)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) ListWithdrawals(ctx context.Context, limit, offset int) ([]*mint.Withdrawal, error) {
	var models []withdrawalModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")

	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*mint.Withdrawal, len(models))
	for i := range models {
		w, err := fromWithdrawalModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = w
	}
	return result, nil
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
