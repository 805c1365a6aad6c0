// Package ddl contains SQL Server-specific helpers for generating DDL.
package ddl

import "statsetl/internal/table"

// MaxIdent is the SQL Server sysname length.
const MaxIdent = 128

// MapType maps a column kind to a SQL Server column type.
func MapType(kind table.Kind) string {
	switch kind {
	case table.Integer:
		return "BIGINT"
	case table.Float:
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
	}
}
