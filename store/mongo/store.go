// Package mongo provides a Store implementation backed by MongoDB via the
// Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/mint"
	mintgatestore "github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/tier"
)

// Collection name constants.
const (
	colTiers       = "mintgate_tiers"
	colConfig      = "mintgate_config"
	colReceipts    = "mintgate_receipts"
	colWithdrawals = "mintgate_withdrawals"
)

// compile-time interface check
var _ mintgatestore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all mintgate collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("mintgate/mongo: migrate %s indexes: %w", col, err)
		}
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
	if err := s.upsertTier(ctx, entry); err != nil {
		return fmt.Errorf("mintgate/mongo: save tier: %w", err)
	}
	return nil
}

func (s *Store) SaveTiers(ctx context.Context, entries []tier.Entry) error {
	for _, entry := range entries {
		if err := s.upsertTier(ctx, entry); err != nil {
			return fmt.Errorf("mintgate/mongo: save tier %d: %w", entry.Index, err)
		}
	}
	return nil
}

func (s *Store) upsertTier(ctx context.Context, entry tier.Entry) error {
	m := toTierModel(entry)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.Index}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":        m.Index,
			"price":      m.Price,
			"ranges":     m.Ranges,
			"created_at": m.CreatedAt,
			"updated_at": m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	return err
}

func (s *Store) LoadTiers(ctx context.Context) ([]tier.Entry, error) {
	var models []tierModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("mintgate/mongo: load tiers: %w", err)
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
		ID:               configDocID,
		MaxMintPerWallet: int64(cfg.MaxMintPerWallet),
		Paused:           cfg.Paused,
		UpdatedAt:        now(),
	}
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":                 m.ID,
			"max_mint_per_wallet": m.MaxMintPerWallet,
			"paused":              m.Paused,
			"updated_at":          m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: save config: %w", err)
	}
	return nil
}

func (s *Store) LoadConfig(ctx context.Context) (*mintgatestore.Config, error) {
	var m configModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": configDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mintgate.ErrConfigNotFound
		}
		return nil, fmt.Errorf("mintgate/mongo: load config: %w", err)
	}
	return &mintgatestore.Config{
		MaxMintPerWallet: uint64(m.MaxMintPerWallet),
		Paused:           m.Paused,
	}, nil
}

// ==================== Receipt log ====================

func (s *Store) SaveReceipts(ctx context.Context, receipts []*mint.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	for _, r := range receipts {
		m := toReceiptModel(r)
		_, err := s.mdb.NewInsert(m).Exec(ctx)
		if err != nil {
			// Skip duplicates for idempotency
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return fmt.Errorf("mintgate/mongo: save receipt: %w", err)
		}
	}
	return nil
}

func (s *Store) GetReceipt(ctx context.Context, receiptID id.ReceiptID) (*mint.Receipt, error) {
	var m receiptModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": receiptID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mintgate.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("mintgate/mongo: get receipt: %w", err)
	}
	return fromReceiptModel(&m)
}

func (s *Store) ListReceipts(ctx context.Context, opts mint.ListOpts) ([]*mint.Receipt, error) {
	var models []receiptModel

	filter := bson.M{}
	if !opts.Recipient.IsZero() {
		filter["recipient"] = opts.Recipient.String()
	}
	if !opts.Payer.IsZero() {
		filter["payer"] = opts.Payer.String()
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mintgate/mongo: list receipts: %w", err)
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: save withdrawal: %w", err)
	}
	return nil
}

func (s *Store) ListWithdrawals(ctx context.Context, limit, offset int) ([]*mint.Withdrawal, error) {
	var models []withdrawalModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if limit > 0 {
		q = q.Limit(int64(limit))
	}
	if offset > 0 {
		q = q.Skip(int64(offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mintgate/mongo: list withdrawals: %w", err)
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

// isNoDocuments checks for the driver's no-documents sentinel.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all mintgate collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colTiers:  {},
		colConfig: {},
		colReceipts: {
			{
				Keys:    bson.D{{Key: "token_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "payer", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "batch_id", Value: 1}}},
		},
		colWithdrawals: {
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
	}
}
