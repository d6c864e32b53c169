package selection

import "sort"

// StableSort stable-sorts out, a vector of ordinals into s (typically
// 0..Size()-1), by applying less to the rows the ordinals map to. Ties
// keep their original relative order; downstream consumers rely on the
// deterministic tie-break. less must be a valid ordering for the
// result to be meaningful, but no comparator can make this crash.
func (s *Selection) StableSort(out []uint32, less func(a, b uint32) bool) {
	switch s.mode {
	case ModeRange:
		stableSortBy(out, less, func(ord uint32) uint32 { return s.start + ord })
	case ModeBitSet:
		stableSortBy(out, less, s.bits.Select)
	default:
		stableSortBy(out, less, func(ord uint32) uint32 { return s.indexes[ord] })
	}
}

// stableSortBy orders the ordinal vector by less over the rows the
// indexer resolves the ordinals to.
func stableSortBy(out []uint32, less func(a, b uint32) bool, indexer func(uint32) uint32) {
	sort.SliceStable(out, func(i, j int) bool {
		return less(indexer(out[i]), indexer(out[j]))
	})
}
