// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "statsetl/internal/table"

// MaxIdent is the Postgres identifier limit (NAMEDATALEN-1).
const MaxIdent = 63

// MapType maps a column kind to a Postgres column type.
func MapType(kind table.Kind) string {
	switch kind {
	case table.Integer:
		return "BIGINT"
	case table.Float:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
