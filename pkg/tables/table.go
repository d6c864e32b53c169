package tables

import (
	"errors"

	"github.com/RoaringBitmap/roaring"
	"github.com/matrixorigin/matrixone/pkg/container/types"
	gvec "github.com/matrixorigin/matrixone/pkg/container/vector"

	"rowset/pkg/index"
)

var (
	ErrColumnNotFound = errors.New("rowset: column not found")
	ErrTypeNotSupport = errors.New("rowset: column type not supported")
)

// Table is a single in-memory table: one vector per column, a roaring
// deletes mask, and optional per-column sorted indexes. It is the
// collaborator the selection engine filters against; typed data access
// stays here, row selections stay in pkg/selection.
type Table struct {
	schema  *Schema
	vecs    []*gvec.Vector
	deletes *roaring.Bitmap
	indexes map[int]*index.SortedIndex
}

func NewTable(schema *Schema) *Table {
	tbl := &Table{
		schema:  schema,
		vecs:    make([]*gvec.Vector, len(schema.ColDefs)),
		deletes: roaring.NewBitmap(),
		indexes: make(map[int]*index.SortedIndex),
	}
	for i, def := range schema.ColDefs {
		vec := &gvec.Vector{}
		vec.Typ = def.Type
		switch def.Type.Oid {
		case types.T_int32:
			vec.Col = make([]int32, 0)
		case types.T_int64:
			vec.Col = make([]int64, 0)
		default:
			panic(ErrTypeNotSupport)
		}
		tbl.vecs[i] = vec
	}
	return tbl
}

func (tbl *Table) GetSchema() *Schema { return tbl.schema }

// Rows returns the physical row count, deleted rows included.
func (tbl *Table) Rows() uint32 {
	if len(tbl.vecs) == 0 {
		return 0
	}
	return uint32(gvec.Length(tbl.vecs[0]))
}

// AppendRow appends one value per column, in schema order.
func (tbl *Table) AppendRow(vals ...int64) {
	if len(vals) != len(tbl.vecs) {
		panic("tables: value count mismatches schema")
	}
	row := tbl.Rows()
	for i, vec := range tbl.vecs {
		switch vec.Typ.Oid {
		case types.T_int32:
			vec.Col = append(vec.Col.([]int32), int32(vals[i]))
		case types.T_int64:
			vec.Col = append(vec.Col.([]int64), vals[i])
		}
		if idx, ok := tbl.indexes[i]; ok {
			idx.Insert(vals[i], row)
		}
	}
}

// GetValue reads the column value at row as int64 regardless of the
// column's physical width.
func (tbl *Table) GetValue(colIdx int, row uint32) int64 {
	vec := tbl.vecs[colIdx]
	switch vec.Typ.Oid {
	case types.T_int32:
		return int64(vec.Col.([]int32)[row])
	default:
		return vec.Col.([]int64)[row]
	}
}

// MakeIndex builds a sorted index over the named column, covering the
// rows already appended, and keeps it current for future appends.
func (tbl *Table) MakeIndex(colName string) error {
	colIdx := tbl.schema.GetColIdx(colName)
	if colIdx < 0 {
		return ErrColumnNotFound
	}
	idx := index.NewSortedIndex()
	for row := uint32(0); row < tbl.Rows(); row++ {
		idx.Insert(tbl.GetValue(colIdx, row), row)
	}
	tbl.indexes[colIdx] = idx
	return nil
}

func (tbl *Table) GetIndex(colName string) *index.SortedIndex {
	colIdx := tbl.schema.GetColIdx(colName)
	if colIdx < 0 {
		return nil
	}
	return tbl.indexes[colIdx]
}

// Delete marks rows [start, end] deleted.
func (tbl *Table) Delete(start, end uint32) {
	tbl.deletes.AddRange(uint64(start), uint64(end)+1)
}

func (tbl *Table) IsDeleted(row uint32) bool {
	return tbl.deletes.Contains(row)
}

func (tbl *Table) DeleteCount() uint32 {
	return uint32(tbl.deletes.GetCardinality())
}
