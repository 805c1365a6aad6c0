// Package table defines the in-memory, column-oriented table model shared by
// the reader, the cleaning stages, the exporters and the storage loaders.
//
// A Table is an ordered list of columns of equal length. Values are stored as
// `any` so that rows can be handed to database drivers without conversion:
//
//   - missing values are nil in every kind
//   - Text columns hold string
//   - Integer columns hold int64
//   - Float columns hold float64
//
// A table read from a raw file (a "raw table") has only Text columns.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	// Text is the kind of every raw column and of columns that did not look numeric.
	Text Kind = iota
	// Integer columns hold whole numbers (int64) and nil for missing values.
	Integer
	// Float columns hold float64 and nil for missing values.
	Float
)

// String returns the lower-case kind name used in logs and reports.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Numeric reports whether k is Integer or Float.
func (k Kind) Numeric() bool { return k == Integer || k == Float }

// Column is a named, typed vector of values.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Table is an ordered set of equally sized columns.
type Table struct {
	Columns []Column
}

// New builds a raw (all Text) table from a header and string rows. Cells for
// which isNA returns true become missing; a nil isNA treats only the empty
// string as missing. Short rows are padded with missing values and extra cells
// are ignored.
func New(header []string, rows [][]string, isNA func(string) bool) *Table {
	if isNA == nil {
		isNA = func(s string) bool { return s == "" }
	}
	t := &Table{Columns: make([]Column, len(header))}
	for j, name := range header {
		vals := make([]any, len(rows))
		for i, row := range rows {
			if j >= len(row) || isNA(row[j]) {
				continue
			}
			vals[i] = row[j]
		}
		t.Columns[j] = Column{Name: name, Kind: Text, Values: vals}
	}
	return t
}

// NumRows returns the number of rows (0 for a table without columns).
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Shape returns (rows, columns), matching the summary printed after cleaning.
func (t *Table) Shape() (int, int) { return t.NumRows(), t.NumCols() }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the first column called name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns a pointer to the first column called name.
func (t *Table) Column(name string) (*Column, bool) {
	i := t.Index(name)
	if i < 0 {
		return nil, false
	}
	return &t.Columns[i], true
}

// Clone returns a deep copy of the table structure. Values are immutable
// scalars, so copying the slices is sufficient.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		vals := make([]any, len(c.Values))
		copy(vals, c.Values)
		out.Columns[i] = Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	return out
}

// Row returns row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for j := range t.Columns {
		row[j] = t.Columns[j].Values[i]
	}
	return row
}

// Rows returns the table in row-major form, aligned to Names().
func (t *Table) Rows() [][]any {
	n := t.NumRows()
	out := make([][]any, n)
	for i := 0; i < n; i++ {
		out[i] = t.Row(i)
	}
	return out
}

// AttachProvenance appends a Text column called name holding value in every
// row. It is how the category a table was collected under travels with it into
// storage.
func (t *Table) AttachProvenance(name, value string) {
	vals := make([]any, t.NumRows())
	for i := range vals {
		vals[i] = value
	}
	t.Columns = append(t.Columns, Column{Name: name, Kind: Text, Values: vals})
}

// FormatValue renders a cell the way it is written to clean CSV files:
// integers without a decimal point, floats in their shortest form, missing as
// the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Head renders the first n rows as tab separated text for verbose logging.
func (t *Table) Head(n int) string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Names(), "\t"))
	b.WriteByte('\n')
	if n > t.NumRows() {
		n = t.NumRows()
	}
	for i := 0; i < n; i++ {
		for j, v := range t.Row(i) {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(FormatValue(v))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FromValues builds a table from already typed rows, such as the result of a
// database query. Each column's kind is Integer when every present value is an
// int64, Float when every present value is numeric and at least one is a
// float64, and Text otherwise. Values of Text columns are rendered with
// FormatValue so a column never mixes Go types.
func FromValues(names []string, rows [][]any) *Table {
	t := &Table{Columns: make([]Column, len(names))}
	for j, name := range names {
		vals := make([]any, len(rows))
		for i, row := range rows {
			if j < len(row) {
				vals[i] = row[j]
			}
		}
		kind := inferKind(vals)
		if kind == Text {
			for i, v := range vals {
				if v != nil {
					vals[i] = FormatValue(v)
				}
			}
		} else if kind == Float {
			for i, v := range vals {
				if n, ok := v.(int64); ok {
					vals[i] = float64(n)
				}
			}
		}
		t.Columns[j] = Column{Name: name, Kind: kind, Values: vals}
	}
	return t
}

func inferKind(vals []any) Kind {
	kind, seen := Integer, false
	for _, v := range vals {
		switch v.(type) {
		case nil:
			continue
		case int64:
		case float64:
			kind = Float
		default:
			return Text
		}
		seen = true
	}
	if !seen {
		return Text
	}
	return kind
}
