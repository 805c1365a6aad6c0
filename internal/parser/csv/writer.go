package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"statsetl/internal/table"
)

// WriteTable writes t with a header row. Integers are written without a
// decimal point, floats in shortest form and missing values as empty cells.
func WriteTable(w io.Writer, t *table.Table, comma rune) error {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j := range t.Columns {
			rec[j] = table.FormatValue(t.Columns[j].Values[i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
