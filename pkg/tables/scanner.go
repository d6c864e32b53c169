package tables

import (
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"rowset/pkg/selection"
)

const (
	// Rows per scan block; matches the node granularity the storage
	// layout uses elsewhere.
	BlockRows uint32 = 4096
)

// Filter is one column predicate.
type Filter struct {
	ColName string
	Op      func(v int64) bool
}

// Scanner narrows the table's full row range down to the rows matching
// every filter: base range selection, FilterInto per predicate, deletes
// mask subtracted last.
type Scanner struct {
	table *Table
}

func NewScanner(table *Table) *Scanner {
	return &Scanner{table: table}
}

// Scan evaluates filters over rows [start, end) and returns the
// matching selection.
func (sc *Scanner) Scan(filters []Filter, start, end uint32) *selection.Selection {
	now := time.Now()
	base := selection.NewRange(start, end)
	// out holds ordinals into base and is narrowed filter by filter.
	out := selection.NewRange(0, end-start)
	for _, f := range filters {
		colIdx := sc.table.schema.GetColIdx(f.ColName)
		if colIdx < 0 {
			panic(ErrColumnNotFound)
		}
		op := f.Op
		base.FilterInto(out, func(row uint32) bool {
			return op(sc.table.GetValue(colIdx, row))
		})
		if out.Size() == 0 {
			break
		}
	}
	hits := base.SelectRows(out)
	if !sc.table.deletes.IsEmpty() {
		hits.RemoveIf(sc.table.deletes.Contains)
	}
	logrus.Debugf("Scan [%d,%d) filters=%d hits=%d takes=%s", start, end, len(filters), hits.Size(), time.Since(now))
	return hits
}

// ScanAll evaluates filters over the whole table.
func (sc *Scanner) ScanAll(filters []Filter) *selection.Selection {
	return sc.Scan(filters, 0, sc.table.Rows())
}

// ScanIndexed resolves a [from, to] range constraint through the
// column's sorted index, then narrows the index hits with the
// remaining filters. The column must have an index.
func (sc *Scanner) ScanIndexed(colName string, from, to int64, filters []Filter) *selection.Selection {
	idx := sc.table.GetIndex(colName)
	if idx == nil {
		panic(ErrColumnNotFound)
	}
	out := sc.ScanAll(filters)
	out.Intersect(idx.SearchRange(from, to))
	return out
}

// ScanBlocks runs Scan over fixed-size row blocks on a shared worker
// pool and merges the per-block hits. Every block owns its selection
// outright; only the merge bitmap is shared, behind the lock.
func (sc *Scanner) ScanBlocks(filters []Filter, pool *ants.Pool) (*selection.Selection, error) {
	now := time.Now()
	rows := sc.table.Rows()
	merged := roaring.NewBitmap()
	var mu sync.Mutex
	var wg sync.WaitGroup
	for start := uint32(0); start < rows; start += BlockRows {
		start := start
		end := start + BlockRows
		if end > rows {
			end = rows
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			hits := sc.Scan(filters, start, end)
			bm := hits.ToBitmap()
			mu.Lock()
			merged.Or(bm)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()
	logrus.Infof("ScanBlocks rows=%d blocks=%d hits=%d takes=%s", rows, (rows+BlockRows-1)/BlockRows, merged.GetCardinality(), time.Since(now))
	if merged.IsEmpty() {
		return selection.New(), nil
	}
	return selection.FromBitmap(merged), nil
}
