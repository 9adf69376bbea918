// Package memory provides an in-memory Store implementation. It is the
// default store and is also suitable for tests.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/tier"
)

type Store struct {
	mu sync.RWMutex

	tiers       map[uint8]tier.Entry
	config      *store.Config
	receipts    []*mint.Receipt
	receiptByID map[id.ReceiptID]*mint.Receipt
	withdrawals []*mint.Withdrawal

	closed bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		tiers:       make(map[uint8]tier.Entry),
		receiptByID: make(map[id.ReceiptID]*mint.Receipt),
	}
}

func (s *Store) SaveTier(_ context.Context, entry tier.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	s.tiers[entry.Index] = cloneEntry(entry)
	return nil
}

func (s *Store) SaveTiers(_ context.Context, entries []tier.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	for _, entry := range entries {
		s.tiers[entry.Index] = cloneEntry(entry)
	}
	return nil
}

func (s *Store) LoadTiers(_ context.Context) ([]tier.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}
	entries := make([]tier.Entry, 0, len(s.tiers))
	for _, entry := range s.tiers {
		entries = append(entries, cloneEntry(entry))
	}
	return entries, nil
}

func (s *Store) SaveConfig(_ context.Context, cfg store.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	s.config = &cfg
	return nil
}

func (s *Store) LoadConfig(_ context.Context) (*store.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}
	if s.config == nil {
		return nil, mintgate.ErrConfigNotFound
	}
	cfg := *s.config
	return &cfg, nil
}

func (s *Store) SaveReceipts(_ context.Context, receipts []*mint.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	for _, r := range receipts {
		cp := *r
		s.receipts = append(s.receipts, &cp)
		s.receiptByID[r.ID] = &cp
	}
	return nil
}

func (s *Store) GetReceipt(_ context.Context, receiptID id.ReceiptID) (*mint.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}
	r, ok := s.receiptByID[receiptID]
	if !ok {
		return nil, mintgate.ErrReceiptNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListReceipts(_ context.Context, opts mint.ListOpts) ([]*mint.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}

	matched := make([]*mint.Receipt, 0)
	for _, r := range s.receipts {
		if !opts.Recipient.IsZero() && r.Recipient != opts.Recipient {
			continue
		}
		if !opts.Payer.IsZero() && r.Payer != opts.Payer {
			continue
		}
		matched = append(matched, r)
	}
	return page(matched, opts.Limit, opts.Offset), nil
}

func (s *Store) SaveWithdrawal(_ context.Context, w *mint.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	cp := *w
	s.withdrawals = append(s.withdrawals, &cp)
	return nil
}

func (s *Store) ListWithdrawals(_ context.Context, limit, offset int) ([]*mint.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}
	return page(s.withdrawals, limit, offset), nil
}

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func cloneEntry(entry tier.Entry) tier.Entry {
	entry.Tier = entry.Tier.Clone()
	return entry
}

// page returns a copy of the requested window. The stored slices are
// append-only, so element pointers are shared but copied on read paths
// that mutate.
func page[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	out := make([]*T, len(items))
	for i, item := range items {
		cp := *item
		out[i] = &cp
	}
	return out
}
