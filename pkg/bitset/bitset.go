package bitset

import (
	"math/bits"

	"github.com/RoaringBitmap/roaring"
)

const wordBits = 64

// BitSet is a growable bit array over 64-bit words. A cumulative
// per-word popcount cache makes Rank amortized O(1) and Select
// O(log words); the cache is rebuilt lazily on the first query after
// a mutation.
type BitSet struct {
	words []uint64
	nbits uint32

	// counts[i] is the number of set bits in words[:i]. Length is
	// len(words)+1 so counts[len(words)] is the total. Valid only
	// when dirty is false.
	counts []uint32
	dirty  bool
}

func New() *BitSet {
	return &BitSet{}
}

func NewWithSize(n uint32, fill bool) *BitSet {
	bv := &BitSet{}
	bv.Resize(n, fill)
	return bv
}

// FromBitmap materializes a roaring bitmap as a BitSet sized to the
// bitmap's maximum value plus one.
func FromBitmap(bm *roaring.Bitmap) *BitSet {
	if bm.IsEmpty() {
		return New()
	}
	bv := NewWithSize(bm.Maximum()+1, false)
	it := bm.Iterator()
	for it.HasNext() {
		bv.Set(it.Next())
	}
	return bv
}

func (bv *BitSet) Size() uint32 { return bv.nbits }

func (bv *BitSet) AppendTrue() {
	bv.appendBit(true)
}

func (bv *BitSet) AppendFalse() {
	bv.appendBit(false)
}

func (bv *BitSet) appendBit(v bool) {
	if int(bv.nbits>>6) == len(bv.words) {
		bv.words = append(bv.words, 0)
	}
	if v {
		bv.words[bv.nbits>>6] |= 1 << (bv.nbits & 63)
	}
	bv.nbits++
	bv.dirty = true
}

func (bv *BitSet) Set(i uint32) {
	if i >= bv.nbits {
		panic("bitset: set index out of range")
	}
	bv.words[i>>6] |= 1 << (i & 63)
	bv.dirty = true
}

func (bv *BitSet) Clear(i uint32) {
	if i >= bv.nbits {
		panic("bitset: clear index out of range")
	}
	bv.words[i>>6] &^= 1 << (i & 63)
	bv.dirty = true
}

func (bv *BitSet) IsSet(i uint32) bool {
	if i >= bv.nbits {
		panic("bitset: index out of range")
	}
	return bv.words[i>>6]&(1<<(i&63)) != 0
}

// Resize grows or shrinks the bitset to n bits. Grown bits take the
// value of fill; shrinking discards trailing bits and keeps the unused
// tail of the last word zero.
func (bv *BitSet) Resize(n uint32, fill bool) {
	if n == bv.nbits {
		return
	}
	nwords := int((n + wordBits - 1) / wordBits)
	if n < bv.nbits {
		bv.words = bv.words[:nwords]
		if rem := n & 63; rem != 0 {
			bv.words[nwords-1] &= (1 << rem) - 1
		}
		bv.nbits = n
		bv.dirty = true
		return
	}
	for len(bv.words) < nwords {
		bv.words = append(bv.words, 0)
	}
	if fill {
		for i := bv.nbits; i < n; i++ {
			bv.words[i>>6] |= 1 << (i & 63)
		}
	}
	bv.nbits = n
	bv.dirty = true
}

// Count returns the total number of set bits.
func (bv *BitSet) Count() uint32 {
	bv.ensureCounts()
	return bv.counts[len(bv.words)]
}

// Rank returns the number of set bits strictly before position i.
// i may equal Size(), in which case Rank equals Count.
func (bv *BitSet) Rank(i uint32) uint32 {
	if i > bv.nbits {
		panic("bitset: rank index out of range")
	}
	bv.ensureCounts()
	w := i >> 6
	if int(w) == len(bv.words) {
		return bv.counts[w]
	}
	mask := uint64(1)<<(i&63) - 1
	return bv.counts[w] + uint32(bits.OnesCount64(bv.words[w]&mask))
}

// Select returns the position of the n-th set bit, 0-based.
// n must be less than Count.
func (bv *BitSet) Select(n uint32) uint32 {
	bv.ensureCounts()
	total := bv.counts[len(bv.words)]
	if n >= total {
		panic("bitset: select ordinal out of range")
	}
	// Find the word holding the (n+1)-th set bit.
	lo, hi := 0, len(bv.words)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if bv.counts[mid+1] > n {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	w := bv.words[lo]
	for rem := n - bv.counts[lo]; rem > 0; rem-- {
		w &= w - 1
	}
	return uint32(lo)*wordBits + uint32(bits.TrailingZeros64(w))
}

// Copy returns a deep copy. Copies are always explicit so the cost of
// duplicating large selections is visible at the call site.
func (bv *BitSet) Copy() *BitSet {
	words := make([]uint64, len(bv.words))
	copy(words, bv.words)
	return &BitSet{
		words: words,
		nbits: bv.nbits,
		dirty: true,
	}
}

// ToBitmap returns the set positions as a roaring bitmap.
func (bv *BitSet) ToBitmap() *roaring.Bitmap {
	bm := roaring.NewBitmap()
	for it := bv.IterateSetBits(); it.Valid(); it.Next() {
		bm.Add(it.Index())
	}
	return bm
}

func (bv *BitSet) ensureCounts() {
	if !bv.dirty && bv.counts != nil {
		return
	}
	if cap(bv.counts) < len(bv.words)+1 {
		bv.counts = make([]uint32, len(bv.words)+1)
	} else {
		bv.counts = bv.counts[:len(bv.words)+1]
	}
	running := uint32(0)
	for i, w := range bv.words {
		bv.counts[i] = running
		running += uint32(bits.OnesCount64(w))
	}
	bv.counts[len(bv.words)] = running
	bv.dirty = false
}
