package ddl

import "statsetl/internal/table"

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, DOUBLE PRECISION)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'hitting', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g., "schema.table") and will
// be quoted by renderers as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// TypeMapper maps a column kind to a backend SQL type.
type TypeMapper func(table.Kind) string

// FromTable derives a table definition from a cleaned table. Every column is
// nullable since any stat can be missing.
func FromTable(fqn string, t *table.Table, mapType TypeMapper) TableDef {
	cols := make([]ColumnDef, 0, t.NumCols())
	for _, c := range t.Columns {
		cols = append(cols, ColumnDef{
			Name:     c.Name,
			SQLType:  mapType(c.Kind),
			Nullable: true,
		})
	}
	return TableDef{FQN: fqn, Columns: cols}
}
