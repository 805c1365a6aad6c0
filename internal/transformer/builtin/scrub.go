package builtin

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"statsetl/internal/table"
	"statsetl/internal/transformer"
)

// Scrub removes structural noise from a raw table:
//
//   - columns where every value is missing
//   - rows where every value is missing
//   - exact duplicate rows (first occurrence wins, order preserved)
//
// and trims surrounding whitespace from column names. Duplicate names after
// trimming are left alone here; Split resolves them once the final column
// set is known.
type Scrub struct{}

// Name implements transformer.Stage.
func (Scrub) Name() string { return "scrub" }

// Apply implements transformer.Stage.
func (Scrub) Apply(t *table.Table, rep *transformer.Report) *table.Table {
	kept := make([]table.Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if allMissing(c.Values) {
			rep.DroppedColumns = append(rep.DroppedColumns, c.Name)
			continue
		}
		kept = append(kept, c)
	}
	t.Columns = kept

	n := t.NumRows()
	keep := make([]int, 0, n)
	seen := make(map[uint64][]int, n)
	var buf []byte
	for i := 0; i < n; i++ {
		if rowMissing(t, i) {
			rep.DroppedRows++
			continue
		}
		buf = appendRowKey(buf[:0], t, i)
		h := xxh3.Hash(buf)
		dup := false
		for _, j := range seen[h] {
			if rowsEqual(t, i, j) {
				dup = true
				break
			}
		}
		if dup {
			rep.Duplicates++
			continue
		}
		seen[h] = append(seen[h], i)
		keep = append(keep, i)
	}

	if len(keep) != n {
		for ci := range t.Columns {
			old := t.Columns[ci].Values
			vals := make([]any, len(keep))
			for k, i := range keep {
				vals[k] = old[i]
			}
			t.Columns[ci].Values = vals
		}
	}

	for ci := range t.Columns {
		t.Columns[ci].Name = strings.TrimSpace(t.Columns[ci].Name)
	}

	if t.NumCols() == 0 || t.NumRows() == 0 {
		rep.Record(fmt.Errorf("scrub: %w", transformer.ErrEmptyTable))
		return &table.Table{}
	}
	return t
}

func allMissing(vals []any) bool {
	for _, v := range vals {
		if v != nil {
			return false
		}
	}
	return true
}

func rowMissing(t *table.Table, i int) bool {
	for _, c := range t.Columns {
		if c.Values[i] != nil {
			return false
		}
	}
	return true
}

func rowsEqual(t *table.Table, i, j int) bool {
	for _, c := range t.Columns {
		if c.Values[i] != c.Values[j] {
			return false
		}
	}
	return true
}

// appendRowKey writes a type-tagged encoding of row i. Distinct rows may
// still collide in the hash; callers confirm with rowsEqual.
func appendRowKey(b []byte, t *table.Table, i int) []byte {
	for _, c := range t.Columns {
		switch v := c.Values[i].(type) {
		case nil:
			b = append(b, 0)
		case string:
			b = append(b, 's')
			b = append(b, v...)
		case int64:
			b = append(b, 'i')
			b = strconv.AppendInt(b, v, 10)
		case float64:
			b = append(b, 'f')
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
		default:
			b = append(b, 'v')
			b = append(b, fmt.Sprint(v)...)
		}
		b = append(b, 0x1f)
	}
	return b
}
