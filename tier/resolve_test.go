package tier

import (
	"testing"

	"github.com/xraph/mintgate/types"
)

func TestContainsBinary(t *testing.T) {
	sorted := []Range{rng(1, 10), rng(20, 30), rng(40, 50), rng(100, 100)}

	tests := []struct {
		name   string
		ranges []Range
		id     uint64
		want   bool
	}{
		{"empty list", nil, 5, false},
		{"single range hit", []Range{rng(5, 5)}, 5, true},
		{"single range miss low", []Range{rng(5, 5)}, 4, false},
		{"single range miss high", []Range{rng(5, 5)}, 6, false},
		{"first range start", sorted, 1, true},
		{"middle range", sorted, 25, true},
		{"gap", sorted, 15, false},
		{"last range", sorted, 100, true},
		{"below all", sorted, 0, false},
		{"above all", sorted, 101, false},
		{"boundary end", sorted, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsBinary(tt.ranges, types.NewTokenID(tt.id)); got != tt.want {
				t.Errorf("containsBinary(%v, %d) = %v, want %v", tt.ranges, tt.id, got, tt.want)
			}
		})
	}
}

func TestContainsLinearUnsorted(t *testing.T) {
	// Linear scan has no ordering requirement.
	ranges := []Range{rng(40, 50), rng(1, 10), rng(20, 30)}

	for _, id := range []uint64{5, 25, 45} {
		if !containsLinear(ranges, types.NewTokenID(id)) {
			t.Errorf("containsLinear missed %d in unsorted ranges", id)
		}
	}
	for _, id := range []uint64{0, 15, 35, 51} {
		if containsLinear(ranges, types.NewTokenID(id)) {
			t.Errorf("containsLinear falsely matched %d", id)
		}
	}
}

func TestStrategiesAgree(t *testing.T) {
	// Over sorted non-overlapping ranges the two strategies are
	// interchangeable.
	ranges := []Range{rng(10, 19), rng(30, 39), rng(50, 59), rng(70, 79), rng(90, 99)}

	for id := uint64(0); id <= 110; id++ {
		tid := types.NewTokenID(id)
		linear := containsLinear(ranges, tid)
		binary := containsBinary(ranges, tid)
		if linear != binary {
			t.Fatalf("strategies disagree at %d: linear=%v binary=%v", id, linear, binary)
		}
	}
}

func TestLargeIdentifiers(t *testing.T) {
	// Containment must work across the full 256-bit space.
	top := types.MustTokenID("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	high := Range{Start: types.MustTokenID("0xffffffffffffffffffffffff00000000000000000000000000000000000000ff"), End: top}

	if !containsLinear([]Range{high}, top) {
		t.Error("linear scan missed the maximum identifier")
	}
	if !containsBinary([]Range{high}, top) {
		t.Error("binary search missed the maximum identifier")
	}
	if containsBinary([]Range{high}, types.NewTokenID(1)) {
		t.Error("binary search matched an identifier below the range")
	}
}
