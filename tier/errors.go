package tier

import "errors"

var (
	// ErrInvalidTier is returned when a tier index is out of range or an
	// identifier resolves to no configured tier.
	ErrInvalidTier = errors.New("tier: invalid tier")

	// ErrInvalidArrayLength is returned by batch configuration when the
	// index, price, and range-list sequences differ in length.
	ErrInvalidArrayLength = errors.New("tier: invalid array length")

	// ErrInvalidRange is returned when a range has start greater than end.
	ErrInvalidRange = errors.New("tier: invalid range")

	// ErrUnsortedRanges is returned under the binary-search strategy when a
	// tier's ranges are not sorted ascending and non-overlapping.
	ErrUnsortedRanges = errors.New("tier: ranges not sorted or overlapping")

	// ErrInvalidStrategy is returned for an unknown resolution strategy.
	ErrInvalidStrategy = errors.New("tier: invalid resolution strategy")
)
