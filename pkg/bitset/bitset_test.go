package bitset

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/assert"
)

func TestAppendAndQuery(t *testing.T) {
	bv := New()
	pattern := []bool{true, false, true, true, false}
	for _, b := range pattern {
		if b {
			bv.AppendTrue()
		} else {
			bv.AppendFalse()
		}
	}
	assert.Equal(t, uint32(5), bv.Size())
	assert.Equal(t, uint32(3), bv.Count())
	for i, b := range pattern {
		assert.Equal(t, b, bv.IsSet(uint32(i)))
	}
}

func TestSetClear(t *testing.T) {
	bv := NewWithSize(200, false)
	bv.Set(0)
	bv.Set(63)
	bv.Set(64)
	bv.Set(199)
	assert.Equal(t, uint32(4), bv.Count())
	bv.Clear(63)
	assert.Equal(t, uint32(3), bv.Count())
	assert.False(t, bv.IsSet(63))
	assert.True(t, bv.IsSet(64))
}

func TestResize(t *testing.T) {
	bv := NewWithSize(10, true)
	assert.Equal(t, uint32(10), bv.Count())

	bv.Resize(100, false)
	assert.Equal(t, uint32(100), bv.Size())
	assert.Equal(t, uint32(10), bv.Count())

	bv.Resize(130, true)
	assert.Equal(t, uint32(40), bv.Count())

	bv.Resize(5, false)
	assert.Equal(t, uint32(5), bv.Size())
	assert.Equal(t, uint32(5), bv.Count())

	// Truncated bits must be gone after growing again.
	bv.Resize(64, false)
	assert.Equal(t, uint32(5), bv.Count())
}

func TestRank(t *testing.T) {
	bv := NewWithSize(300, false)
	set := []uint32{0, 1, 63, 64, 128, 255, 299}
	for _, i := range set {
		bv.Set(i)
	}
	assert.Equal(t, uint32(0), bv.Rank(0))
	assert.Equal(t, uint32(1), bv.Rank(1))
	assert.Equal(t, uint32(2), bv.Rank(2))
	assert.Equal(t, uint32(2), bv.Rank(63))
	assert.Equal(t, uint32(3), bv.Rank(64))
	assert.Equal(t, uint32(4), bv.Rank(65))
	assert.Equal(t, uint32(7), bv.Rank(300))
}

func TestSelect(t *testing.T) {
	bv := NewWithSize(300, false)
	set := []uint32{0, 1, 63, 64, 128, 255, 299}
	for _, i := range set {
		bv.Set(i)
	}
	for n, want := range set {
		assert.Equal(t, want, bv.Select(uint32(n)))
	}
	assert.Panics(t, func() { bv.Select(uint32(len(set))) })
}

func TestRankSelectRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	bv := NewWithSize(4096, false)
	ref := make([]uint32, 0)
	for i := uint32(0); i < 4096; i++ {
		if r.Intn(3) == 0 {
			bv.Set(i)
			ref = append(ref, i)
		}
	}
	assert.Equal(t, uint32(len(ref)), bv.Count())
	for n, want := range ref {
		assert.Equal(t, want, bv.Select(uint32(n)))
		assert.Equal(t, uint32(n), bv.Rank(want))
	}
}

func TestRankAfterMutation(t *testing.T) {
	bv := NewWithSize(100, false)
	bv.Set(10)
	assert.Equal(t, uint32(1), bv.Count())
	// Mutate after a query; the cache must not go stale.
	bv.Set(20)
	bv.Clear(10)
	assert.Equal(t, uint32(1), bv.Count())
	assert.Equal(t, uint32(20), bv.Select(0))
}

func TestIterateSetBits(t *testing.T) {
	bv := NewWithSize(200, false)
	set := []uint32{3, 64, 65, 127, 128, 199}
	for _, i := range set {
		bv.Set(i)
	}
	got := make([]uint32, 0)
	for it := bv.IterateSetBits(); it.Valid(); it.Next() {
		assert.Equal(t, uint32(len(got)), it.Ordinal())
		got = append(got, it.Index())
	}
	assert.Equal(t, set, got)
}

func TestIterateSetBitsClear(t *testing.T) {
	bv := NewWithSize(100, false)
	for i := uint32(0); i < 100; i += 2 {
		bv.Set(i)
	}
	for it := bv.IterateSetBits(); it.Valid(); it.Next() {
		if it.Index()%4 == 0 {
			it.Clear()
		}
	}
	assert.Equal(t, uint32(25), bv.Count())
	for it := bv.IterateSetBits(); it.Valid(); it.Next() {
		assert.Equal(t, uint32(2), it.Index()%4)
	}
}

func TestIterateAllBits(t *testing.T) {
	bv := NewWithSize(10, false)
	cnt := 0
	for it := bv.IterateAllBits(); it.Valid(); it.Next() {
		if it.Index()%2 == 0 {
			it.Set()
		}
		cnt++
	}
	assert.Equal(t, 10, cnt)
	assert.Equal(t, uint32(5), bv.Count())
}

func TestCopy(t *testing.T) {
	bv := NewWithSize(100, false)
	bv.Set(7)
	cp := bv.Copy()
	cp.Set(8)
	assert.Equal(t, uint32(1), bv.Count())
	assert.Equal(t, uint32(2), cp.Count())
}

func TestRoaringRoundTrip(t *testing.T) {
	bm := roaring.NewBitmap()
	bm.AddRange(10, 20)
	bm.Add(1000)
	bv := FromBitmap(bm)
	assert.Equal(t, uint32(1001), bv.Size())
	assert.Equal(t, uint32(11), bv.Count())
	assert.True(t, bm.Equals(bv.ToBitmap()))
}

func TestMarshal(t *testing.T) {
	bv := NewWithSize(500, false)
	for i := uint32(0); i < 500; i += 7 {
		bv.Set(i)
	}
	var buf bytes.Buffer
	_, err := bv.WriteTo(&buf)
	assert.Nil(t, err)

	out := New()
	_, err = out.ReadFrom(&buf)
	assert.Nil(t, err)
	assert.Equal(t, bv.Size(), out.Size())
	assert.Equal(t, bv.Count(), out.Count())
	for i := uint32(0); i < 500; i++ {
		assert.Equal(t, bv.IsSet(i), out.IsSet(i))
	}
}

func TestOutOfRangePanics(t *testing.T) {
	bv := NewWithSize(10, false)
	assert.Panics(t, func() { bv.Set(10) })
	assert.Panics(t, func() { bv.IsSet(10) })
	assert.Panics(t, func() { bv.Rank(11) })
}
