package tier

import "fmt"

// Registry is the fixed-capacity indexed collection of tiers.
//
// The registry owns its tiers: Set stores a deep copy and Get returns one, so
// callers can never mutate registry state through a shared slice. Registry is
// not goroutine-safe; the engine serializes access.
type Registry struct {
	strategy Strategy
	tiers    [MaxTiers]Tier
}

// NewRegistry creates an empty registry using the given resolution strategy.
// An empty strategy defaults to StrategyLinear.
func NewRegistry(strategy Strategy) (*Registry, error) {
	if strategy == "" {
		strategy = StrategyLinear
	}
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	return &Registry{strategy: strategy}, nil
}

// Strategy returns the active resolution strategy.
func (r *Registry) Strategy() Strategy { return r.strategy }

// Set replaces the tier at index with the given price and ranges. The old
// range list is discarded wholesale, never merged. Setting a zero price
// logically clears the index.
func (r *Registry) Set(index uint8, price Price, ranges []Range) error {
	t := Tier{Price: price, Ranges: ranges}
	if err := r.validate(index, t); err != nil {
		return err
	}
	r.tiers[index] = t.Clone()
	return nil
}

// SetBatch applies several tier replacements atomically. The three slices
// must have equal length. Every entry is validated before any is applied, so
// a failure partway leaves the registry untouched.
func (r *Registry) SetBatch(indexes []uint8, prices []Price, rangeLists [][]Range) error {
	if len(indexes) != len(prices) || len(indexes) != len(rangeLists) {
		return fmt.Errorf("%w: %d indexes, %d prices, %d range lists",
			ErrInvalidArrayLength, len(indexes), len(prices), len(rangeLists))
	}
	for i, index := range indexes {
		if err := r.validate(index, Tier{Price: prices[i], Ranges: rangeLists[i]}); err != nil {
			return err
		}
	}
	for i, index := range indexes {
		r.tiers[index] = Tier{Price: prices[i], Ranges: rangeLists[i]}.Clone()
	}
	return nil
}

// Get returns a copy of the tier at index. An unset index yields the empty
// tier; an index beyond the registry capacity fails with ErrInvalidTier.
func (r *Registry) Get(index uint8) (Tier, error) {
	if index >= MaxTiers {
		return Tier{}, fmt.Errorf("%w: index %d out of range", ErrInvalidTier, index)
	}
	return r.tiers[index].Clone(), nil
}

// Resolve returns the lowest tier index whose ranges contain id, considering
// only tiers with a nonzero price. Fails with ErrInvalidTier if no tier
// contains id. Resolution is a pure function of current registry state.
func (r *Registry) Resolve(id TokenID) (uint8, error) {
	for index := range r.tiers {
		t := &r.tiers[index]
		if !t.IsSet() {
			continue
		}
		if r.contains(t.Ranges, id) {
			return uint8(index), nil
		}
	}
	return 0, fmt.Errorf("%w: no tier covers identifier %s", ErrInvalidTier, id)
}

// Price returns the price of the tier that id resolves to. A zero stored
// price is unreachable given Resolve's nonzero-price filter, but is checked
// anyway and reported as ErrInvalidTier.
func (r *Registry) Price(id TokenID) (Price, error) {
	index, err := r.Resolve(id)
	if err != nil {
		return Price{}, err
	}
	p := r.tiers[index].Price
	if p.IsZero() {
		return Price{}, fmt.Errorf("%w: tier %d has zero price", ErrInvalidTier, index)
	}
	return p, nil
}

// Clone returns a deep copy of the registry, including its strategy.
func (r *Registry) Clone() *Registry {
	out := &Registry{strategy: r.strategy}
	for index := range r.tiers {
		out.tiers[index] = r.tiers[index].Clone()
	}
	return out
}

// Snapshot returns a deep copy of every set tier with its index, ascending.
func (r *Registry) Snapshot() []Entry {
	var out []Entry
	for index := range r.tiers {
		if r.tiers[index].IsSet() {
			out = append(out, Entry{Index: uint8(index), Tier: r.tiers[index].Clone()})
		}
	}
	return out
}

// Restore replaces the registry contents from a snapshot. Entries are
// validated the same way Set validates them.
func (r *Registry) Restore(entries []Entry) error {
	var fresh [MaxTiers]Tier
	for _, e := range entries {
		if err := r.validate(e.Index, e.Tier); err != nil {
			return err
		}
		fresh[e.Index] = e.Tier.Clone()
	}
	r.tiers = fresh
	return nil
}

// validate checks index bounds, range well-formedness, and (under the binary
// strategy) the sorted non-overlapping invariant the search depends on.
func (r *Registry) validate(index uint8, t Tier) error {
	if index >= MaxTiers {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidTier, index)
	}
	for _, rng := range t.Ranges {
		if err := rng.Validate(); err != nil {
			return fmt.Errorf("tier %d: %w", index, err)
		}
	}
	if r.strategy == StrategyBinary {
		for i := 1; i < len(t.Ranges); i++ {
			if t.Ranges[i].Start.Cmp(t.Ranges[i-1].End) <= 0 {
				return fmt.Errorf("%w: tier %d range %s follows %s",
					ErrUnsortedRanges, index, t.Ranges[i], t.Ranges[i-1])
			}
		}
	}
	return nil
}

// contains dispatches to the active containment strategy.
func (r *Registry) contains(ranges []Range, id TokenID) bool {
	if r.strategy == StrategyBinary {
		return containsBinary(ranges, id)
	}
	return containsLinear(ranges, id)
}
