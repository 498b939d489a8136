package calibration

import (
	"runtime"
	"slices"
)

// GenerateThreadCounts returns the thread counts tried by a calibration
// sweep: powers of two from 1 up to limit, plus the CPU count and limit
// itself, in ascending order without duplicates. A limit of zero or less
// means twice the CPU count.
func GenerateThreadCounts(limit int) []int {
	numCPU := runtime.NumCPU()
	if limit <= 0 {
		limit = 2 * numCPU
	}

	counts := []int{limit}
	for n := 1; n < limit; n *= 2 {
		counts = append(counts, n)
	}
	if numCPU < limit {
		counts = append(counts, numCPU)
	}
	slices.Sort(counts)
	return slices.Compact(counts)
}

// GenerateQuickThreadCounts returns a short sweep around the CPU count, for
// callers that cannot afford a full calibration.
func GenerateQuickThreadCounts() []int {
	numCPU := runtime.NumCPU()
	if numCPU == 1 {
		return []int{1}
	}
	counts := []int{1, max(numCPU/2, 1), numCPU, 2 * numCPU}
	slices.Sort(counts)
	return slices.Compact(counts)
}
