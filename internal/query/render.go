package query

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"statsetl/internal/table"
)

// nullText is how missing values are printed.
const nullText = "NULL"

// Render writes t as left-aligned text columns with a header line. At most
// maxRows rows are printed (all when maxRows <= 0), followed by a line that
// says how many were left out.
func Render(w io.Writer, t *table.Table, maxRows int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Names(), "\t"))

	n := t.NumRows()
	shown := n
	if maxRows > 0 && shown > maxRows {
		shown = maxRows
	}
	cells := make([]string, t.NumCols())
	for i := 0; i < shown; i++ {
		for j, v := range t.Row(i) {
			if v == nil {
				cells[j] = nullText
				continue
			}
			cells[j] = table.FormatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if shown < n {
		_, err := fmt.Fprintf(w, "... %d more rows\n", n-shown)
		return err
	}
	return nil
}
