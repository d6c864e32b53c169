package bitset

import "math/bits"

// SetBitsIterator walks the set bits of a BitSet in ascending order.
// It is a plain value; callers keep it on the stack. Clearing the
// current bit during traversal is allowed and does not disturb the
// walk.
type SetBitsIterator struct {
	bv      *BitSet
	word    uint64
	wordIdx int
	index   uint32
	ordinal uint32
	valid   bool
}

// IterateSetBits returns a fresh iterator positioned on the first set
// bit, if any.
func (bv *BitSet) IterateSetBits() SetBitsIterator {
	it := SetBitsIterator{bv: bv, wordIdx: -1}
	it.nextWord()
	return it
}

func (it *SetBitsIterator) nextWord() {
	it.valid = false
	for i := it.wordIdx + 1; i < len(it.bv.words); i++ {
		if w := it.bv.words[i]; w != 0 {
			it.wordIdx = i
			it.word = w
			it.index = uint32(i)*wordBits + uint32(bits.TrailingZeros64(w))
			it.valid = true
			return
		}
	}
}

func (it *SetBitsIterator) Valid() bool { return it.valid }

func (it *SetBitsIterator) Next() {
	it.ordinal++
	it.word &= it.word - 1
	if it.word != 0 {
		it.index = uint32(it.wordIdx)*wordBits + uint32(bits.TrailingZeros64(it.word))
		return
	}
	it.nextWord()
}

// Index returns the bit position of the current set bit.
func (it *SetBitsIterator) Index() uint32 { return it.index }

// Ordinal returns how many set bits precede the current one in this
// traversal.
func (it *SetBitsIterator) Ordinal() uint32 { return it.ordinal }

// Clear clears the current bit in the underlying BitSet.
func (it *SetBitsIterator) Clear() {
	it.bv.Clear(it.index)
}

// AllBitsIterator walks every position of a BitSet in order, set or
// not, with in-place Set and Clear of the current position.
type AllBitsIterator struct {
	bv    *BitSet
	index uint32
}

func (bv *BitSet) IterateAllBits() AllBitsIterator {
	return AllBitsIterator{bv: bv}
}

func (it *AllBitsIterator) Valid() bool { return it.index < it.bv.nbits }

func (it *AllBitsIterator) Next() { it.index++ }

func (it *AllBitsIterator) Index() uint32 { return it.index }

func (it *AllBitsIterator) IsSet() bool { return it.bv.IsSet(it.index) }

func (it *AllBitsIterator) Set() { it.bv.Set(it.index) }

func (it *AllBitsIterator) Clear() { it.bv.Clear(it.index) }
