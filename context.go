package mintgate

import (
	"context"

	"github.com/xraph/mintgate/types"
)

type callerKey struct{}

// WithCaller returns a context carrying the caller's ledger address. Every
// engine operation reads its caller identity from the context: for mints
// the caller is the payer; for privileged operations it is the account the
// capability check runs against.
func WithCaller(ctx context.Context, caller types.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom extracts the caller address from the context, or the zero
// address if none was set.
func CallerFrom(ctx context.Context) types.Address {
	if v, ok := ctx.Value(callerKey{}).(types.Address); ok {
		return v
	}
	return types.ZeroAddress
}
