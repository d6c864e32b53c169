package selection

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"rowset/pkg/bitset"
)

// Mode tags the backing store of a Selection. Preference order is
// Range > BitSet > Indexes, based on memory cost; the richer modes
// exist because a range cannot represent holes and a bitset cannot
// represent ordering or duplicates.
type Mode int8

const (
	ModeRange Mode = iota
	ModeBitSet
	ModeIndexes
)

// DebugCheckSorted enables sortedness checks on the Indexes-mode
// preconditions of Insert and FilterInto. Off by default: release
// behavior stays permissive, misuse yields wrong results rather than
// a panic.
var DebugCheckSorted = false

// Selection is an ordered set of row indexes into a table, stored as
// the cheapest of three representations: a contiguous [start, end)
// range, a BitSet where bit i means row i is selected, or an explicit
// index list (not necessarily unique or sorted). Exactly one backing
// store is active at a time. Selections are not safe for concurrent
// mutation.
type Selection struct {
	mode Mode

	// Valid only in ModeRange. start inclusive, end exclusive.
	start uint32
	end   uint32

	// Valid only in ModeBitSet.
	bits *bitset.BitSet

	// Valid only in ModeIndexes.
	indexes []uint32
}

// New returns the canonical empty selection, the zero-length range.
func New() *Selection {
	return &Selection{}
}

// NewRange returns the selection of all rows in [start, end).
func NewRange(start, end uint32) *Selection {
	if end < start {
		panic("selection: range end before start")
	}
	return &Selection{mode: ModeRange, start: start, end: end}
}

// SingleRow returns the selection containing just row.
func SingleRow(row uint32) *Selection {
	return NewRange(row, row+1)
}

// FromBitSet wraps bv, taking ownership of it.
func FromBitSet(bv *bitset.BitSet) *Selection {
	return &Selection{mode: ModeBitSet, bits: bv}
}

// FromIndexes wraps rows, taking ownership of the slice. Rows need not
// be sorted or unique; duplicates are a supported (if unusual) case
// used for repeated-row projections.
func FromIndexes(rows []uint32) *Selection {
	return &Selection{mode: ModeIndexes, indexes: rows}
}

// FromBitmap materializes a roaring row mask as a BitSet-mode
// selection.
func FromBitmap(bm *roaring.Bitmap) *Selection {
	return FromBitSet(bitset.FromBitmap(bm))
}

func (s *Selection) Mode() Mode { return s.mode }

// Copy returns a deep copy. Like the BitSet it may own, a Selection is
// never duplicated implicitly.
func (s *Selection) Copy() *Selection {
	cp := &Selection{mode: s.mode, start: s.start, end: s.end}
	if s.bits != nil {
		cp.bits = s.bits.Copy()
	}
	if s.indexes != nil {
		cp.indexes = make([]uint32, len(s.indexes))
		copy(cp.indexes, s.indexes)
	}
	return cp
}

// Size returns the number of selected rows.
func (s *Selection) Size() uint32 {
	switch s.mode {
	case ModeRange:
		return s.end - s.start
	case ModeBitSet:
		return s.bits.Count()
	default:
		return uint32(len(s.indexes))
	}
}

// Get returns the row at ordinal position ord in the selection's
// defined order: ascending for Range and BitSet, list order for
// Indexes.
func (s *Selection) Get(ord uint32) uint32 {
	if ord >= s.Size() {
		panic("selection: ordinal out of range")
	}
	switch s.mode {
	case ModeRange:
		return s.start + ord
	case ModeBitSet:
		return s.bits.Select(ord)
	default:
		return s.indexes[ord]
	}
}

// Contains reports whether row is part of the selection. Indexes mode
// is a linear scan and is the slow path.
func (s *Selection) Contains(row uint32) bool {
	switch s.mode {
	case ModeRange:
		return row >= s.start && row < s.end
	case ModeBitSet:
		return row < s.bits.Size() && s.bits.IsSet(row)
	default:
		for _, r := range s.indexes {
			if r == row {
				return true
			}
		}
		return false
	}
}

// IndexOf returns the ordinal of the first occurrence of row, and
// whether it is present at all.
func (s *Selection) IndexOf(row uint32) (uint32, bool) {
	switch s.mode {
	case ModeRange:
		if row < s.start || row >= s.end {
			return 0, false
		}
		return row - s.start, true
	case ModeBitSet:
		if row >= s.bits.Size() || !s.bits.IsSet(row) {
			return 0, false
		}
		return s.bits.Rank(row), true
	default:
		for i, r := range s.indexes {
			if r == row {
				return uint32(i), true
			}
		}
		return 0, false
	}
}

// Insert adds row to the selection, which must already be sorted by
// row value (always true in Range and BitSet modes; a precondition in
// Indexes mode). A Range only survives an append at its end; any other
// insert promotes it to BitSet mode. BitSet mode is never demoted.
func (s *Selection) Insert(row uint32) {
	switch s.mode {
	case ModeRange:
		if row == s.end {
			s.end++
			return
		}
		bv := bitset.NewWithSize(s.start, false)
		bv.Resize(s.end, true)
		s.adoptBitSet(bv)
		s.insertIntoBitSet(row)
	case ModeBitSet:
		s.insertIntoBitSet(row)
	default:
		if DebugCheckSorted {
			s.checkSorted(s.indexes)
		}
		i := sort.Search(len(s.indexes), func(i int) bool {
			return s.indexes[i] > row
		})
		s.indexes = append(s.indexes, 0)
		copy(s.indexes[i+1:], s.indexes[i:])
		s.indexes[i] = row
	}
}

func (s *Selection) insertIntoBitSet(row uint32) {
	if row >= s.bits.Size() {
		s.bits.Resize(row+1, false)
	}
	s.bits.Set(row)
}

// SelectRows builds a new selection containing, in order, the rows of
// s at the ordinals given by selector. With selector [0, 3, 4, 4, 2]
// over s [0, 1, 4, 10, 11], the result is [0, 10, 11, 11, 4].
func (s *Selection) SelectRows(selector *Selection) *Selection {
	n := selector.Size()
	if n == 0 {
		return New()
	}
	if n == 1 {
		return SingleRow(s.Get(selector.Get(0)))
	}
	if s.mode == ModeRange && selector.mode == ModeRange {
		// Ordinals into a range are themselves a range.
		if selector.end > s.end-s.start {
			panic("selection: selector ordinal out of range")
		}
		return NewRange(s.start+selector.start, s.start+selector.end)
	}
	rows := make([]uint32, 0, n)
	for it := selector.IterateRows(); it.Valid(); it.Next() {
		rows = append(rows, s.Get(it.Row()))
	}
	return FromIndexes(rows)
}

// Intersect narrows s in place to the rows also present in other,
// keeping s's order.
func (s *Selection) Intersect(other *Selection) {
	n := other.Size()
	if n == 0 {
		*s = *New()
		return
	}
	if n == 1 {
		row := other.Get(0)
		if s.Contains(row) {
			*s = *SingleRow(row)
		} else {
			*s = *New()
		}
		return
	}
	if s.mode == ModeRange && other.mode == ModeRange {
		if other.start > s.start {
			s.start = other.start
		}
		if other.end < s.end {
			s.end = other.end
		}
		if s.end <= s.start {
			*s = *New()
		}
		return
	}
	s.RemoveIf(func(row uint32) bool {
		return !other.Contains(row)
	})
}

// RemoveIf removes every row for which p returns true. A Range-mode
// selection is promoted to BitSet mode.
func (s *Selection) RemoveIf(p func(row uint32) bool) {
	switch s.mode {
	case ModeRange:
		bv := bitset.NewWithSize(s.start, false)
		for i := s.start; i < s.end; i++ {
			if p(i) {
				bv.AppendFalse()
			} else {
				bv.AppendTrue()
			}
		}
		s.adoptBitSet(bv)
	case ModeBitSet:
		for it := s.bits.IterateSetBits(); it.Valid(); it.Next() {
			if p(it.Index()) {
				it.Clear()
			}
		}
	default:
		kept := s.indexes[:0]
		for _, row := range s.indexes {
			if !p(row) {
				kept = append(kept, row)
			}
		}
		s.indexes = kept
	}
}

// FilterInto retains in out only the ordinals o (ordinals into s) for
// which p(s.Get(o)) holds. s itself is not modified or copied; this is
// the workhorse for applying column predicates. Precondition: out's
// rows are a subset of [0, s.Size()) and, in Indexes mode, sorted.
func (s *Selection) FilterInto(out *Selection, p func(row uint32) bool) {
	if s.Size() < out.Size() {
		panic("selection: filter target larger than source")
	}
	it := s.IterateRows()
	switch out.mode {
	case ModeRange:
		bv := bitset.NewWithSize(out.end, false)
		for ; it.Valid(); it.Next() {
			ord := it.Ordinal()
			if ord < out.start {
				continue
			}
			if ord >= out.end {
				break
			}
			if p(it.Row()) {
				bv.Set(ord)
			}
		}
		out.adoptBitSet(bv)
	case ModeBitSet:
		for outIt := out.bits.IterateAllBits(); outIt.Valid(); outIt.Next() {
			if outIt.IsSet() && !p(it.Row()) {
				outIt.Clear()
			}
			it.Next()
		}
	default:
		if DebugCheckSorted {
			s.checkSorted(out.indexes)
		}
		kept := out.indexes[:0]
		for _, ord := range out.indexes {
			for it.Ordinal() < ord {
				it.Next()
			}
			if p(it.Row()) {
				kept = append(kept, ord)
			}
		}
		out.indexes = kept
	}
}

// ToBitmap returns the selected rows as a roaring bitmap. Indexes-mode
// ordering and duplicates do not survive the conversion.
func (s *Selection) ToBitmap() *roaring.Bitmap {
	bm := roaring.NewBitmap()
	switch s.mode {
	case ModeRange:
		bm.AddRange(uint64(s.start), uint64(s.end))
	case ModeBitSet:
		bm = s.bits.ToBitmap()
	default:
		bm.AddMany(s.indexes)
	}
	return bm
}

func (s *Selection) adoptBitSet(bv *bitset.BitSet) {
	*s = Selection{mode: ModeBitSet, bits: bv}
}

func (s *Selection) checkSorted(rows []uint32) {
	if !sort.SliceIsSorted(rows, func(i, j int) bool { return rows[i] < rows[j] }) {
		panic("selection: index list not sorted")
	}
}
