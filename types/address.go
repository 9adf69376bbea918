package types

// Address identifies an account on the payment and issuance ledgers.
// The engine treats addresses as opaque strings; the collaborating ledgers
// own their format.
type Address string

// ZeroAddress is the empty address.
const ZeroAddress Address = ""

// IsZero returns true if the address is empty.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String returns the address as a plain string.
func (a Address) String() string { return string(a) }
