package index

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/google/btree"

	"rowset/pkg/selection"
)

const treeDegree = 32

type keyEntry struct {
	key  int64
	rows []uint32
}

func (e *keyEntry) Less(item btree.Item) bool {
	return e.key < item.(*keyEntry).key
}

// SortedIndex maps column values to the rows where they occur, backed
// by a btree so point and range lookups come back as selections
// without scanning the column.
type SortedIndex struct {
	tree *btree.BTree
}

func NewSortedIndex() *SortedIndex {
	return &SortedIndex{
		tree: btree.New(treeDegree),
	}
}

func (idx *SortedIndex) Insert(key int64, row uint32) {
	item := idx.tree.Get(&keyEntry{key: key})
	if item == nil {
		idx.tree.ReplaceOrInsert(&keyEntry{key: key, rows: []uint32{row}})
		return
	}
	entry := item.(*keyEntry)
	entry.rows = append(entry.rows, row)
}

func (idx *SortedIndex) Len() int {
	return idx.tree.Len()
}

// Search returns the rows holding key, in insertion order, as an
// index-list selection. Missing keys yield the canonical empty
// selection.
func (idx *SortedIndex) Search(key int64) *selection.Selection {
	item := idx.tree.Get(&keyEntry{key: key})
	if item == nil {
		return selection.New()
	}
	rows := item.(*keyEntry).rows
	out := make([]uint32, len(rows))
	copy(out, rows)
	return selection.FromIndexes(out)
}

// SearchRange returns all rows whose key lies in [from, to], both
// bounds inclusive, as a BitSet-mode selection in ascending row order
// with duplicates collapsed.
func (idx *SortedIndex) SearchRange(from, to int64) *selection.Selection {
	if to < from {
		return selection.New()
	}
	bm := roaring.NewBitmap()
	idx.tree.AscendGreaterOrEqual(&keyEntry{key: from}, func(item btree.Item) bool {
		entry := item.(*keyEntry)
		if entry.key > to {
			return false
		}
		bm.AddMany(entry.rows)
		return true
	})
	if bm.IsEmpty() {
		return selection.New()
	}
	return selection.FromBitmap(bm)
}
