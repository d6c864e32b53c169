package common

import (
	"encoding/binary"
	"io"
)

func WriteUint32s(vals []uint32, w io.Writer) (n int64, err error) {
	if err = binary.Write(w, binary.BigEndian, uint32(len(vals))); err != nil {
		return
	}
	n = 4
	for _, v := range vals {
		if err = binary.Write(w, binary.BigEndian, v); err != nil {
			return
		}
		n += 4
	}
	return
}

func ReadUint32s(r io.Reader) (vals []uint32, n int64, err error) {
	cnt := uint32(0)
	if err = binary.Read(r, binary.BigEndian, &cnt); err != nil {
		return
	}
	n = 4
	vals = make([]uint32, cnt)
	for i := range vals {
		if err = binary.Read(r, binary.BigEndian, &vals[i]); err != nil {
			return
		}
		n += 4
	}
	return
}
