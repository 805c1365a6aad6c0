package builtin

import (
	"strings"
	"unicode"

	"statsetl/internal/table"
	"statsetl/internal/transformer"
)

// DefaultSampleSize is how many non-missing values Coerce inspects before
// deciding a column is numeric.
const DefaultSampleSize = 20

// Coerce cleans Text cells (thousands separators removed, whitespace
// trimmed, empty becomes missing) and converts a column to a number kind when
// every sampled value contains at least one digit. Cells in such a column
// that still do not parse become missing and are recorded as
// ConversionFailure. Numeric columns produced by Split are left untouched.
type Coerce struct {
	SampleSize int
}

// Name implements transformer.Stage.
func (Coerce) Name() string { return "coerce" }

// Apply implements transformer.Stage.
func (c Coerce) Apply(t *table.Table, rep *transformer.Report) *table.Table {
	n := c.SampleSize
	if n <= 0 {
		n = DefaultSampleSize
	}
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != table.Text {
			continue
		}
		for j, v := range col.Values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = cleanCell(s)
			if s == "" {
				col.Values[j] = nil
			} else {
				col.Values[j] = s
			}
		}
		if looksNumeric(col.Values, n) {
			convertNumeric(col, rep)
		}
	}
	return t
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

// looksNumeric reports whether each of the first n non-missing values has a
// digit in it. A column with nothing to sample counts as numeric.
func looksNumeric(vals []any, n int) bool {
	sampled := 0
	for _, v := range vals {
		if sampled == n {
			break
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		sampled++
		if strings.IndexFunc(s, unicode.IsDigit) < 0 {
			return false
		}
	}
	return true
}

func convertNumeric(col *table.Column, rep *transformer.Report) {
	vals := make([]any, len(col.Values))
	for i, v := range col.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		f, ok := parseNumber(s)
		if !ok {
			rep.Record(&transformer.ConversionFailure{Column: col.Name, Row: i, Value: s})
			continue
		}
		vals[i] = f
	}
	*col = numericColumn(col.Name, vals)
}
