package issuance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xraph/mintgate/types"
)

// ErrAlreadyIssued is returned when minting an identifier that already has
// an owner.
var ErrAlreadyIssued = errors.New("issuance: identifier already issued")

// compile-time interface check
var _ Ledger = (*MemoryLedger)(nil)

// MemoryLedger is a mutex-guarded in-memory Ledger.
type MemoryLedger struct {
	mu     sync.RWMutex
	owners map[types.TokenID]types.Address
	counts map[types.Address]uint64
}

// NewMemoryLedger creates an empty in-memory issuance ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		owners: make(map[types.TokenID]types.Address),
		counts: make(map[types.Address]uint64),
	}
}

// BalanceOf implements Ledger.
func (l *MemoryLedger) BalanceOf(_ context.Context, owner types.Address) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[owner], nil
}

// Minted implements Ledger.
func (l *MemoryLedger) Minted(_ context.Context, tokenID types.TokenID) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.owners[tokenID]
	return ok, nil
}

// Mint implements Ledger.
func (l *MemoryLedger) Mint(_ context.Context, recipient types.Address, tokenID types.TokenID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if owner, ok := l.owners[tokenID]; ok {
		return fmt.Errorf("%w: %s owned by %s", ErrAlreadyIssued, tokenID, owner)
	}
	l.owners[tokenID] = recipient
	l.counts[recipient]++
	return nil
}

// OwnerOf returns the owner of an identifier, or the zero address if it has
// not been issued. Not part of the Ledger interface; test helper.
func (l *MemoryLedger) OwnerOf(tokenID types.TokenID) types.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.owners[tokenID]
}
