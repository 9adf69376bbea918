// Package access defines the capability-check collaborator gating the
// engine's privileged operations.
package access

import (
	"context"
	"sync"

	"github.com/xraph/mintgate/types"
)

// Role names a capability on the engine.
type Role string

const (
	// RoleManager may configure tiers, rebind collaborators, change the
	// per-wallet cap, withdraw funds, and pause or unpause minting.
	RoleManager Role = "manager"
)

// Provider answers capability checks. Implementations own the authorization
// scheme; the engine only asks yes/no questions.
type Provider interface {
	HasRole(ctx context.Context, role Role, account types.Address) (bool, error)
}

// compile-time interface check
var _ Provider = (*StaticProvider)(nil)

// StaticProvider is a mutex-guarded in-memory role table.
type StaticProvider struct {
	mu    sync.RWMutex
	roles map[Role]map[types.Address]struct{}
}

// NewStaticProvider creates a provider granting role to each of the given
// accounts.
func NewStaticProvider(role Role, accounts ...types.Address) *StaticProvider {
	p := &StaticProvider{roles: make(map[Role]map[types.Address]struct{})}
	for _, a := range accounts {
		p.Grant(role, a)
	}
	return p
}

// Grant gives account the role.
func (p *StaticProvider) Grant(role Role, account types.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.roles[role] == nil {
		p.roles[role] = make(map[types.Address]struct{})
	}
	p.roles[role][account] = struct{}{}
}

// Revoke removes the role from account.
func (p *StaticProvider) Revoke(role Role, account types.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.roles[role], account)
}

// HasRole implements Provider.
func (p *StaticProvider) HasRole(_ context.Context, role Role, account types.Address) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.roles[role][account]
	return ok, nil
}
