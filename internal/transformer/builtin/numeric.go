// Package builtin holds the cleaning stages applied to every raw stats table.
package builtin

import (
	"math"
	"strconv"
	"strings"

	"statsetl/internal/table"
)

// int64 bounds as float64; 2^63 itself is not representable as int64.
const (
	minInt64f = -9223372036854775808.0
	maxInt64f = 9223372036854775808.0
)

// parseNumber parses a cleaned cell as a finite decimal number.
func parseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// fitsInt64 reports whether f is a whole number representable as int64.
func fitsInt64(f float64) bool {
	return f == math.Trunc(f) && f >= minInt64f && f < maxInt64f
}

// numericKind returns Integer when every non-missing float64 in vals is a
// whole number in int64 range, Float otherwise. A column with no values at
// all is Integer (nullable integer, all missing).
func numericKind(vals []any) table.Kind {
	for _, v := range vals {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if !fitsInt64(f) {
			return table.Float
		}
	}
	return table.Integer
}

// numericColumn builds a numeric column from float64/nil values, narrowing
// to int64 when every value is whole.
func numericColumn(name string, vals []any) table.Column {
	kind := numericKind(vals)
	if kind == table.Integer {
		for i, v := range vals {
			if f, ok := v.(float64); ok {
				vals[i] = int64(f)
			}
		}
	}
	return table.Column{Name: name, Kind: kind, Values: vals}
}
