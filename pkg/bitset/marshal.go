package bitset

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/RoaringBitmap/roaring"
)

// WriteTo serializes the bitset as its size followed by the roaring
// serialization of the set positions.
func (bv *BitSet) WriteTo(w io.Writer) (n int64, err error) {
	if err = binary.Write(w, binary.BigEndian, bv.nbits); err != nil {
		return
	}
	n = 4
	buf, err := bv.ToBitmap().ToBytes()
	if err != nil {
		return
	}
	if err = binary.Write(w, binary.BigEndian, uint32(len(buf))); err != nil {
		return
	}
	n += 4
	wn, err := w.Write(buf)
	n += int64(wn)
	return
}

func (bv *BitSet) ReadFrom(r io.Reader) (n int64, err error) {
	var nbits, cnt uint32
	if err = binary.Read(r, binary.BigEndian, &nbits); err != nil {
		return
	}
	n = 4
	if err = binary.Read(r, binary.BigEndian, &cnt); err != nil {
		return
	}
	n += 4
	buf := make([]byte, cnt)
	if _, err = io.ReadFull(r, buf); err != nil {
		return
	}
	n += int64(cnt)
	bm := roaring.NewBitmap()
	if _, err = bm.ReadFrom(bytes.NewBuffer(buf)); err != nil {
		return
	}
	bv.words = bv.words[:0]
	bv.nbits = 0
	bv.dirty = true
	bv.Resize(nbits, false)
	it := bm.Iterator()
	for it.HasNext() {
		bv.Set(it.Next())
	}
	return
}
