package tier

// containsLinear iterates all ranges in stored order. O(n) per tier, no
// ordering requirement.
func containsLinear(ranges []Range, id TokenID) bool {
	for _, r := range ranges {
		if r.Contains(id) {
			return true
		}
	}
	return false
}

// containsBinary binary-searches ranges sorted ascending by start with no
// overlaps. The empty list is handled before computing high = len-1; the
// native form of this search underflows an unsigned high on an empty list,
// which is the degenerate "not found" this guard makes explicit.
func containsBinary(ranges []Range, id TokenID) bool {
	if len(ranges) == 0 {
		return false
	}
	low, high := 0, len(ranges)-1
	for low <= high {
		mid := (low + high) / 2
		switch {
		case id.Cmp(ranges[mid].Start) < 0:
			high = mid - 1
		case id.Cmp(ranges[mid].End) > 0:
			low = mid + 1
		default:
			return true
		}
	}
	return false
}
