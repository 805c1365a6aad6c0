package ddl

import (
	"testing"

	gddl "statsetl/internal/ddl"
	"statsetl/internal/table"
)

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := QuoteIdent("a`b"); got != "`a``b`" {
		t.Fatalf("QuoteIdent=%q", got)
	}
	if got := QuoteFQN("stats.hitting_hr"); got != "`stats`.`hitting_hr`" {
		t.Fatalf("QuoteFQN=%q", got)
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(gddl.TableDef{
		FQN: "hitting_hr",
		Columns: []gddl.ColumnDef{
			{Name: "rank", SQLType: MapType(table.Integer), Nullable: true},
			{Name: "hr_g", SQLType: MapType(table.Float), Nullable: true},
			{Name: "name", SQLType: MapType(table.Text), Nullable: true},
		},
	})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS `hitting_hr` (\n  `rank` BIGINT,\n  `hr_g` DOUBLE,\n  `name` TEXT\n);"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
