package ddl

import (
	"strings"

	gddl "statsetl/internal/ddl"
)

// QuoteIdent quotes a single identifier segment for Postgres.
func QuoteIdent(id string) string { return gddl.DoubleQuote(id) }

// QuoteFQN quotes "public.hitting_hr" as "public"."hitting_hr".
func QuoteFQN(fqn string) string { return gddl.QuoteFQN(fqn, QuoteIdent) }

// SplitFQN splits a dotted name into its non-empty segments, the form
// pgx.Identifier expects.
func SplitFQN(fqn string) []string {
	var out []string
	for _, p := range strings.Split(fqn, ".") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, QuoteIdent)
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) string {
	return gddl.BuildDropTableSQL(fqn, QuoteIdent)
}
