package selection

import (
	"encoding/binary"
	"io"

	"rowset/pkg/bitset"
	"rowset/pkg/common"
)

// Serialization is a mode byte followed by the mode payload: start and
// end for a range, the BitSet serialization for a bitset, a length
// prefixed index list otherwise.
func (s *Selection) WriteTo(w io.Writer) (n int64, err error) {
	if err = binary.Write(w, binary.BigEndian, int8(s.mode)); err != nil {
		return
	}
	n = 1
	switch s.mode {
	case ModeRange:
		if err = binary.Write(w, binary.BigEndian, s.start); err != nil {
			return
		}
		if err = binary.Write(w, binary.BigEndian, s.end); err != nil {
			return
		}
		n += 8
	case ModeBitSet:
		var bn int64
		bn, err = s.bits.WriteTo(w)
		n += bn
	default:
		var sn int64
		sn, err = common.WriteUint32s(s.indexes, w)
		n += sn
	}
	return
}

func (s *Selection) ReadFrom(r io.Reader) (n int64, err error) {
	var mode int8
	if err = binary.Read(r, binary.BigEndian, &mode); err != nil {
		return
	}
	n = 1
	switch Mode(mode) {
	case ModeRange:
		var start, end uint32
		if err = binary.Read(r, binary.BigEndian, &start); err != nil {
			return
		}
		if err = binary.Read(r, binary.BigEndian, &end); err != nil {
			return
		}
		n += 8
		*s = *NewRange(start, end)
	case ModeBitSet:
		bv := bitset.New()
		var bn int64
		if bn, err = bv.ReadFrom(r); err != nil {
			return
		}
		n += bn
		*s = *FromBitSet(bv)
	default:
		var rows []uint32
		var sn int64
		if rows, sn, err = common.ReadUint32s(r); err != nil {
			return
		}
		n += sn
		*s = *FromIndexes(rows)
	}
	return
}
