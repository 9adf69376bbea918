// Package types provides common value types used across Mintgate.
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit quantity of the payment asset, denominated in
// the asset's smallest unit. All arithmetic is integer-only.
//
// Amount has value semantics: it can be compared, copied, and used as a map
// key without aliasing surprises.
type Amount struct {
	v uint256.Int
}

// NewAmount creates an Amount from a uint64.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount parses a decimal string, or a hex string with a "0x" prefix,
// into an Amount.
func ParseAmount(s string) (Amount, error) {
	var a Amount
	if err := setU256(&a.v, s); err != nil {
		return Amount{}, fmt.Errorf("types: parse amount %q: %w", s, err)
	}
	return a, nil
}

// MustAmount is like ParseAmount but panics on malformed input.
// Intended for constants and tests.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ZeroAmount returns the zero Amount.
func ZeroAmount() Amount { return Amount{} }

// Add returns a + other. Panics on 256-bit overflow: amounts are never
// meaningfully near 2^256 and wrap-around would corrupt a payment total.
func (a Amount) Add(other Amount) Amount {
	var sum Amount
	if _, overflow := sum.v.AddOverflow(&a.v, &other.v); overflow {
		panic(fmt.Sprintf("types: amount overflow: %s + %s", a, other))
	}
	return sum
}

// Sub returns a - other. Panics if other > a.
func (a Amount) Sub(other Amount) Amount {
	if a.v.Lt(&other.v) {
		panic(fmt.Sprintf("types: amount underflow: %s - %s", a, other))
	}
	var diff Amount
	diff.v.Sub(&a.v, &other.v)
	return diff
}

// Mul returns a * n. Panics on 256-bit overflow.
func (a Amount) Mul(n uint64) Amount {
	var prod Amount
	var m uint256.Int
	m.SetUint64(n)
	if _, overflow := prod.v.MulOverflow(&a.v, &m); overflow {
		panic(fmt.Sprintf("types: amount overflow: %s * %d", a, n))
	}
	return prod
}

// Cmp compares two Amounts: -1 if a < other, 0 if equal, +1 if a > other.
func (a Amount) Cmp(other Amount) int { return a.v.Cmp(&other.v) }

// Equal returns true if both Amounts are equal.
func (a Amount) Equal(other Amount) bool { return a.v.Eq(&other.v) }

// IsZero returns true if the Amount is zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// LessThan returns true if a < other.
func (a Amount) LessThan(other Amount) bool { return a.v.Lt(&other.v) }

// GreaterThan returns true if a > other.
func (a Amount) GreaterThan(other Amount) bool { return a.v.Gt(&other.v) }

// Uint64 returns the Amount as a uint64 and whether it fits.
func (a Amount) Uint64() (uint64, bool) {
	if !a.v.IsUint64() {
		return 0, false
	}
	return a.v.Uint64(), true
}

// String returns the decimal representation.
func (a Amount) String() string { return a.v.Dec() }

// MarshalJSON implements json.Marshaler. Amounts marshal as quoted decimal
// strings so values above 2^53 survive JSON number parsers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts quoted decimal, quoted
// "0x" hex, or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if err := setU256(&a.v, s); err != nil {
		return fmt.Errorf("types: unmarshal amount %q: %w", s, err)
	}
	return nil
}

// setU256 parses decimal or 0x-prefixed hex into z.
func setU256(z *uint256.Int, s string) error {
	if s == "" {
		return fmt.Errorf("empty string")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return z.SetFromHex(s)
	}
	return z.SetFromDecimal(s)
}
