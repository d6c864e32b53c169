package tables

import (
	"testing"

	"github.com/matrixorigin/matrixone/pkg/container/types"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
)

func mockTable(t *testing.T, rows uint32) *Table {
	schema := NewEmptySchema("mock")
	schema.AppendCol("id", types.Type{Oid: types.T_int32, Size: 4, Width: 4})
	schema.AppendCol("score", types.Type{Oid: types.T_int64, Size: 8, Width: 8})
	tbl := NewTable(schema)
	for i := uint32(0); i < rows; i++ {
		tbl.AppendRow(int64(i), int64(i%100))
	}
	assert.Equal(t, rows, tbl.Rows())
	return tbl
}

func TestAppendAndGet(t *testing.T) {
	tbl := mockTable(t, 1000)
	assert.Equal(t, int64(7), tbl.GetValue(0, 7))
	assert.Equal(t, int64(7), tbl.GetValue(1, 7))
	assert.Equal(t, int64(23), tbl.GetValue(1, 523))
}

func TestScan(t *testing.T) {
	tbl := mockTable(t, 1000)
	sc := NewScanner(tbl)
	hits := sc.ScanAll([]Filter{
		{ColName: "score", Op: func(v int64) bool { return v < 10 }},
	})
	assert.Equal(t, uint32(100), hits.Size())
	for it := hits.IterateRows(); it.Valid(); it.Next() {
		assert.True(t, tbl.GetValue(1, it.Row()) < 10)
	}
}

func TestScanMultiFilter(t *testing.T) {
	tbl := mockTable(t, 1000)
	sc := NewScanner(tbl)
	hits := sc.ScanAll([]Filter{
		{ColName: "score", Op: func(v int64) bool { return v < 10 }},
		{ColName: "id", Op: func(v int64) bool { return v >= 500 }},
	})
	assert.Equal(t, uint32(50), hits.Size())
}

func TestScanSubrange(t *testing.T) {
	tbl := mockTable(t, 1000)
	sc := NewScanner(tbl)
	hits := sc.Scan([]Filter{
		{ColName: "score", Op: func(v int64) bool { return v == 5 }},
	}, 500, 700)
	assert.Equal(t, uint32(2), hits.Size())
	assert.Equal(t, uint32(505), hits.Get(0))
	assert.Equal(t, uint32(605), hits.Get(1))
}

func TestScanDeletes(t *testing.T) {
	tbl := mockTable(t, 1000)
	tbl.Delete(0, 499)
	assert.Equal(t, uint32(500), tbl.DeleteCount())
	assert.True(t, tbl.IsDeleted(100))
	sc := NewScanner(tbl)
	hits := sc.ScanAll([]Filter{
		{ColName: "score", Op: func(v int64) bool { return v < 10 }},
	})
	assert.Equal(t, uint32(50), hits.Size())
	for it := hits.IterateRows(); it.Valid(); it.Next() {
		assert.True(t, it.Row() >= 500)
	}
}

func TestScanIndexed(t *testing.T) {
	tbl := mockTable(t, 1000)
	assert.Nil(t, tbl.MakeIndex("score"))
	sc := NewScanner(tbl)
	hits := sc.ScanIndexed("score", 10, 19, []Filter{
		{ColName: "id", Op: func(v int64) bool { return v < 500 }},
	})
	assert.Equal(t, uint32(50), hits.Size())
	for it := hits.IterateRows(); it.Valid(); it.Next() {
		v := tbl.GetValue(1, it.Row())
		assert.True(t, v >= 10 && v <= 19)
	}
}

func TestIndexFollowsAppends(t *testing.T) {
	tbl := mockTable(t, 100)
	assert.Nil(t, tbl.MakeIndex("score"))
	tbl.AppendRow(100, 5)
	s := tbl.GetIndex("score").Search(5)
	assert.Equal(t, uint32(2), s.Size())
	assert.Equal(t, uint32(5), s.Get(0))
	assert.Equal(t, uint32(100), s.Get(1))
}

func TestScanBlocks(t *testing.T) {
	tbl := mockTable(t, 20000)
	sc := NewScanner(tbl)
	pool, err := ants.NewPool(4)
	assert.Nil(t, err)
	defer pool.Release()

	hits, err := sc.ScanBlocks([]Filter{
		{ColName: "score", Op: func(v int64) bool { return v == 42 }},
	}, pool)
	assert.Nil(t, err)
	assert.Equal(t, uint32(200), hits.Size())

	serial := sc.ScanAll([]Filter{
		{ColName: "score", Op: func(v int64) bool { return v == 42 }},
	})
	assert.True(t, hits.ToBitmap().Equals(serial.ToBitmap()))
}

func TestMissingColumn(t *testing.T) {
	tbl := mockTable(t, 10)
	assert.Equal(t, ErrColumnNotFound, tbl.MakeIndex("nope"))
	sc := NewScanner(tbl)
	assert.Panics(t, func() {
		sc.ScanAll([]Filter{{ColName: "nope", Op: func(int64) bool { return true }}})
	})
}
