package tables

import (
	"github.com/matrixorigin/matrixone/pkg/container/types"
)

type ColDef struct {
	Name string
	Idx  int
	Type types.Type
}

type Schema struct {
	Name    string
	ColDefs []*ColDef
}

func NewEmptySchema(name string) *Schema {
	return &Schema{Name: name}
}

func (s *Schema) AppendCol(name string, typ types.Type) *ColDef {
	def := &ColDef{
		Name: name,
		Idx:  len(s.ColDefs),
		Type: typ,
	}
	s.ColDefs = append(s.ColDefs, def)
	return def
}

func (s *Schema) GetColIdx(name string) int {
	for _, def := range s.ColDefs {
		if def.Name == name {
			return def.Idx
		}
	}
	return -1
}

func MockSchema(colCnt int) *Schema {
	schema := NewEmptySchema("mock")
	prefix := "mock_"
	for i := 0; i < colCnt; i++ {
		name := prefix + string(rune('0'+i))
		schema.AppendCol(name, types.Type{Oid: types.T_int32, Size: 4, Width: 4})
	}
	return schema
}
