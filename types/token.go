package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// TokenID is a numeric identifier in the unsigned 256-bit identifier space.
// Like Amount it has value semantics and marshals as a quoted decimal string.
type TokenID struct {
	v uint256.Int
}

// NewTokenID creates a TokenID from a uint64.
func NewTokenID(n uint64) TokenID {
	var id TokenID
	id.v.SetUint64(n)
	return id
}

// ParseTokenID parses a decimal string, or a hex string with a "0x" prefix,
// into a TokenID.
func ParseTokenID(s string) (TokenID, error) {
	var id TokenID
	if err := setU256(&id.v, s); err != nil {
		return TokenID{}, fmt.Errorf("types: parse token id %q: %w", s, err)
	}
	return id, nil
}

// MustTokenID is like ParseTokenID but panics on malformed input.
func MustTokenID(s string) TokenID {
	id, err := ParseTokenID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Cmp compares two TokenIDs: -1 if id < other, 0 if equal, +1 if id > other.
func (id TokenID) Cmp(other TokenID) int { return id.v.Cmp(&other.v) }

// Equal returns true if both TokenIDs are equal.
func (id TokenID) Equal(other TokenID) bool { return id.v.Eq(&other.v) }

// String returns the decimal representation.
func (id TokenID) String() string { return id.v.Dec() }

// MarshalJSON implements json.Marshaler.
func (id TokenID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts quoted decimal, quoted
// "0x" hex, or a bare JSON number.
func (id *TokenID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if err := setU256(&id.v, s); err != nil {
		return fmt.Errorf("types: unmarshal token id %q: %w", s, err)
	}
	return nil
}
