package selection

import "rowset/pkg/bitset"

// Iterator walks a Selection yielding (ordinal, row) pairs: ascending
// row order in Range and BitSet modes, list order in Indexes mode. The
// mode is fixed for the iterator's lifetime; the owning Selection must
// not be mutated while an iterator over it is alive. All per-mode
// cursor state lives inline in the struct, so iterating allocates
// nothing.
type Iterator struct {
	s *Selection

	// Range mode: current row. Indexes mode: current ordinal.
	cursor uint32

	// BitSet mode walker, held by value.
	setBits bitset.SetBitsIterator
}

// IterateRows returns an iterator positioned on the first row, if any.
// Iterators are restartable only by constructing a new one.
func (s *Selection) IterateRows() Iterator {
	it := Iterator{s: s}
	switch s.mode {
	case ModeRange:
		it.cursor = s.start
	case ModeBitSet:
		it.setBits = s.bits.IterateSetBits()
	}
	return it
}

func (it *Iterator) Valid() bool {
	switch it.s.mode {
	case ModeRange:
		return it.cursor < it.s.end
	case ModeBitSet:
		return it.setBits.Valid()
	default:
		return it.cursor < uint32(len(it.s.indexes))
	}
}

func (it *Iterator) Next() {
	if it.s.mode == ModeBitSet {
		it.setBits.Next()
		return
	}
	it.cursor++
}

// Row returns the row the iterator points at.
func (it *Iterator) Row() uint32 {
	switch it.s.mode {
	case ModeRange:
		return it.cursor
	case ModeBitSet:
		return it.setBits.Index()
	default:
		return it.s.indexes[it.cursor]
	}
}

// Ordinal returns the position of the current row within the
// selection's order.
func (it *Iterator) Ordinal() uint32 {
	switch it.s.mode {
	case ModeRange:
		return it.cursor - it.s.start
	case ModeBitSet:
		return it.setBits.Ordinal()
	default:
		return it.cursor
	}
}
