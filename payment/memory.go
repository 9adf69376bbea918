package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xraph/mintgate/types"
)

var (
	// ErrInsufficientFunds is returned when a transfer exceeds the source
	// balance.
	ErrInsufficientFunds = errors.New("payment: insufficient funds")

	// ErrInsufficientAllowance is returned when TransferFrom exceeds the
	// owner→spender allowance.
	ErrInsufficientAllowance = errors.New("payment: insufficient allowance")
)

// compile-time interface check
var _ Ledger = (*MemoryLedger)(nil)

// MemoryLedger is a mutex-guarded in-memory Ledger.
type MemoryLedger struct {
	mu         sync.RWMutex
	balances   map[types.Address]types.Amount
	allowances map[types.Address]map[types.Address]types.Amount
}

// NewMemoryLedger creates an empty in-memory payment ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances:   make(map[types.Address]types.Amount),
		allowances: make(map[types.Address]map[types.Address]types.Amount),
	}
}

// Credit adds amount to account's balance.
func (l *MemoryLedger) Credit(account types.Address, amount types.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] = l.balances[account].Add(amount)
}

// Approve sets the owner→spender allowance to amount, replacing any prior
// value.
func (l *MemoryLedger) Approve(owner, spender types.Address, amount types.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[types.Address]types.Amount)
	}
	l.allowances[owner][spender] = amount
}

// BalanceOf implements Ledger.
func (l *MemoryLedger) BalanceOf(_ context.Context, account types.Address) (types.Amount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account], nil
}

// Allowance implements Ledger.
func (l *MemoryLedger) Allowance(_ context.Context, owner, spender types.Address) (types.Amount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[owner][spender], nil
}

// TransferFrom implements Ledger.
func (l *MemoryLedger) TransferFrom(_ context.Context, owner, spender types.Address, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	allowed := l.allowances[owner][spender]
	if allowed.LessThan(amount) {
		return fmt.Errorf("%w: %s allows %s to spend %s, need %s",
			ErrInsufficientAllowance, owner, spender, allowed, amount)
	}
	if err := l.move(owner, spender, amount); err != nil {
		return err
	}
	l.allowances[owner][spender] = allowed.Sub(amount)
	return nil
}

// Transfer implements Ledger.
func (l *MemoryLedger) Transfer(_ context.Context, from, to types.Address, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

// move requires l.mu held for writing.
func (l *MemoryLedger) move(from, to types.Address, amount types.Amount) error {
	balance := l.balances[from]
	if balance.LessThan(amount) {
		return fmt.Errorf("%w: %s holds %s, need %s", ErrInsufficientFunds, from, balance, amount)
	}
	l.balances[from] = balance.Sub(amount)
	l.balances[to] = l.balances[to].Add(amount)
	return nil
}
