package storage

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	gddl "statsetl/internal/ddl"
	"statsetl/internal/table"
)

func registerTestDialect(kind string, maxIdent int) {
	RegisterDialect(kind, Dialect{
		MapType: func(k table.Kind) string {
			switch k {
			case table.Integer:
				return "INTEGER"
			case table.Float:
				return "REAL"
			default:
				return "TEXT"
			}
		},
		CreateTable: func(d gddl.TableDef) (string, error) { return gddl.BuildCreateTableSQL(d, gddl.DoubleQuote) },
		DropTable:   func(fqn string) string { return gddl.BuildDropTableSQL(fqn, gddl.DoubleQuote) },
		MaxIdent:    maxIdent,
	})
}

func statsTable() *table.Table {
	return &table.Table{Columns: []table.Column{
		{Name: "rank", Kind: table.Integer, Values: []any{int64(1), int64(2), int64(3)}},
		{Name: "name", Kind: table.Text, Values: []any{"Ruth", "Aaron", nil}},
		{Name: "hr_g", Kind: table.Float, Values: []any{0.5, nil, 0.25}},
	}}
}

func TestLoadReplaceDropsCreatesAndCopies(t *testing.T) {
	t.Parallel()

	registerTestDialect("fake-load", 0)
	repo := &fakeRepo{}

	n, err := Load(context.Background(), repo, "fake-load", "hitting_hr", statsTable(), LoadOptions{Replace: true, BatchSize: 2})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if n != 3 {
		t.Fatalf("Load n=%d; want 3", n)
	}
	if len(repo.execs) != 2 {
		t.Fatalf("execs=%q; want drop and create", repo.execs)
	}
	if !strings.HasPrefix(repo.execs[0], `DROP TABLE IF EXISTS "hitting_hr"`) {
		t.Fatalf("first exec=%q; want drop", repo.execs[0])
	}
	if !strings.Contains(repo.execs[1], `"hr_g" REAL`) {
		t.Fatalf("create=%q; want hr_g REAL", repo.execs[1])
	}
	if !reflect.DeepEqual(repo.columns, []string{"rank", "name", "hr_g"}) {
		t.Fatalf("columns=%v", repo.columns)
	}
	want := [][]any{{int64(1), "Ruth", 0.5}, {int64(2), "Aaron", nil}, {int64(3), nil, 0.25}}
	if !reflect.DeepEqual(repo.copied, want) {
		t.Fatalf("copied=%#v; want %#v", repo.copied, want)
	}
}

func TestLoadAppendSkipsDrop(t *testing.T) {
	t.Parallel()

	registerTestDialect("fake-append", 0)
	repo := &fakeRepo{}

	if _, err := Load(context.Background(), repo, "fake-append", "t", statsTable(), LoadOptions{}); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(repo.execs) != 1 || !strings.HasPrefix(repo.execs[0], "CREATE TABLE IF NOT EXISTS") {
		t.Fatalf("execs=%q; want only create", repo.execs)
	}
}

func TestLoadShortensIdentifiers(t *testing.T) {
	t.Parallel()

	registerTestDialect("fake-short", 12)
	repo := &fakeRepo{}
	tbl := &table.Table{Columns: []table.Column{
		{Name: "home_runs_per_game", Kind: table.Float, Values: []any{0.5}},
		{Name: "home_runs_at_game", Kind: table.Float, Values: []any{1.5}},
	}}

	if _, err := Load(context.Background(), repo, "fake-short", "t", tbl, LoadOptions{}); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	for _, c := range repo.columns {
		if len(c) > 14 {
			t.Fatalf("column %q not shortened", c)
		}
	}
	if repo.columns[0] == repo.columns[1] {
		t.Fatalf("shortened columns collide: %v", repo.columns)
	}
	if tbl.Columns[0].Name != "home_runs_per_game" {
		t.Fatalf("Load renamed the caller's table: %v", tbl.Names())
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	if _, err := Load(context.Background(), &fakeRepo{}, "no-such-dialect", "t", statsTable(), LoadOptions{}); err == nil {
		t.Fatalf("expected error for unregistered dialect")
	}

	registerTestDialect("fake-err", 0)
	if _, err := Load(context.Background(), &fakeRepo{}, "fake-err", "t", &table.Table{}, LoadOptions{}); err == nil {
		t.Fatalf("expected error for table without columns")
	}

	boom := errors.New("disk full")
	_, err := Load(context.Background(), &fakeRepo{copyErr: boom}, "fake-err", "t", statsTable(), LoadOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v; want %v", err, boom)
	}
}
