package model

// slotCombinations enumerates every way to choose k slots from the given
// list, without replacement and order-independent. Choosing recursively over
// an index range keeps the enumeration exact: for n available slots the
// result has exactly C(n, k) entries and no duplicates. k > len(slots) or
// k <= 0 yields no combinations.
func slotCombinations(slots []TimeSlot, k int) [][]TimeSlot {
	if k <= 0 || k > len(slots) {
		return nil
	}

	combinations := make([][]TimeSlot, 0)
	chooseSlots(slots, k, 0, make([]TimeSlot, 0, k), &combinations)
	return combinations
}

func chooseSlots(slots []TimeSlot, k, start int, current []TimeSlot, combinations *[][]TimeSlot) {
	if len(current) == k {
		combination := make([]TimeSlot, k)
		copy(combination, current)
		*combinations = append(*combinations, combination)
		return
	}

	// Not enough slots left to complete the combination
	if k-len(current) > len(slots)-start {
		return
	}

	for i := start; i < len(slots); i++ {
		chooseSlots(slots, k, i+1, append(current, slots[i]), combinations)
	}
}
