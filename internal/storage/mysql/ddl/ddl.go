// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "statsetl/internal/ddl"
	"statsetl/internal/table"
)

// MaxIdent is the MySQL identifier limit.
const MaxIdent = 64

// MapType maps a column kind to a MySQL column type. TEXT keeps long
// almanac notes without a length guess.
func MapType(kind table.Kind) string {
	switch kind {
	case table.Integer:
		return "BIGINT"
	case table.Float:
		return "DOUBLE"
	default:
		return "TEXT"
	}
}

// QuoteIdent quotes with backticks, doubling embedded backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteFQN quotes "stats.hitting_hr" as `stats`.`hitting_hr`.
func QuoteFQN(fqn string) string { return gddl.QuoteFQN(fqn, QuoteIdent) }

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, QuoteIdent)
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) string {
	return gddl.BuildDropTableSQL(fqn, QuoteIdent)
}
