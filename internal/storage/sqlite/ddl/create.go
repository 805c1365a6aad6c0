package ddl

import (
	gddl "statsetl/internal/ddl"
)

// QuoteIdent uses double-quoted identifiers: "table", "col".
func QuoteIdent(id string) string { return gddl.DoubleQuote(id) }

// QuoteFQN quotes each segment of a possibly schema-qualified name
// ("main.events" -> "main"."events").
func QuoteFQN(fqn string) string { return gddl.QuoteFQN(fqn, QuoteIdent) }

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, QuoteIdent)
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) string {
	return gddl.BuildDropTableSQL(fqn, QuoteIdent)
}
