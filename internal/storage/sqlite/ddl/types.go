// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "statsetl/internal/table"

// MapType maps a column kind to a SQLite type affinity.
func MapType(kind table.Kind) string {
	switch kind {
	case table.Integer:
		return "INTEGER"
	case table.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}
