package sqlite

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"statsetl/internal/storage"
	"statsetl/internal/table"
)

/*
Package-level test helpers
*/

func newMemRepo(tb testing.TB) storage.Repository {
	tb.Helper()
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:"})
	if err != nil {
		tb.Fatalf("open sqlite :memory:: %v", err)
	}
	tb.Cleanup(repo.Close)
	return repo
}

func hittingTable() *table.Table {
	return &table.Table{Columns: []table.Column{
		{Name: "rank", Kind: table.Integer, Values: []any{int64(1), int64(2), int64(2)}},
		{Name: "name", Kind: table.Text, Values: []any{"Babe Ruth", "Hank Aaron", nil}},
		{Name: "hr_g", Kind: table.Float, Values: []any{0.5, nil, 0.25}},
		{Name: "source", Kind: table.Text, Values: []any{"hitting", "hitting", "hitting"}},
	}}
}

/*
Unit tests
*/

func TestLoadAndQueryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)

	n, err := storage.Load(ctx, repo, "sqlite", "hitting_hr", hittingTable(), storage.LoadOptions{Replace: true, BatchSize: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 3 {
		t.Fatalf("Load n=%d; want 3", n)
	}

	got, err := repo.Query(ctx, `SELECT rank, name, hr_g FROM hitting_hr ORDER BY rowid`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := [][]any{
		{int64(1), "Babe Ruth", 0.5},
		{int64(2), "Hank Aaron", nil},
		{int64(2), nil, 0.25},
	}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Fatalf("rows=%#v; want %#v", got.Rows(), want)
	}
	if got.Columns[0].Kind != table.Integer || got.Columns[2].Kind != table.Float {
		t.Fatalf("kinds=%v,%v; want integer,float", got.Columns[0].Kind, got.Columns[2].Kind)
	}
}

func TestLoadReplaceVersusAppend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)
	count := func() int64 {
		t.Helper()
		res, err := repo.Query(ctx, `SELECT COUNT(*) AS n FROM hitting_hr`)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		return res.Columns[0].Values[0].(int64)
	}

	for i := 0; i < 2; i++ {
		if _, err := storage.Load(ctx, repo, "sqlite", "hitting_hr", hittingTable(), storage.LoadOptions{Replace: true}); err != nil {
			t.Fatalf("Load replace: %v", err)
		}
	}
	if got := count(); got != 3 {
		t.Fatalf("after two replaces count=%d; want 3", got)
	}

	if _, err := storage.Load(ctx, repo, "sqlite", "hitting_hr", hittingTable(), storage.LoadOptions{}); err != nil {
		t.Fatalf("Load append: %v", err)
	}
	if got := count(); got != 6 {
		t.Fatalf("after append count=%d; want 6", got)
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)
	for _, name := range []string{"pitching_era", "hitting_hr"} {
		if _, err := storage.Load(ctx, repo, "sqlite", name, hittingTable(), storage.LoadOptions{Replace: true}); err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
	}

	tables, err := repo.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"hitting_hr", "pitching_era"}) {
		t.Fatalf("Tables=%v", tables)
	}

	cols, err := repo.Columns(ctx, "hitting_hr")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	want := []storage.ColumnInfo{
		{Name: "rank", Type: "INTEGER"},
		{Name: "name", Type: "TEXT"},
		{Name: "hr_g", Type: "REAL"},
		{Name: "source", Type: "TEXT"},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("Columns=%+v; want %+v", cols, want)
	}

	if _, err := repo.Columns(ctx, "nope"); err == nil {
		t.Fatalf("Columns(nope) error=nil; want error")
	}
}

func TestCopyFromRejectsRaggedRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)
	if err := repo.Exec(ctx, `CREATE TABLE t (a INTEGER, b TEXT)`); err != nil {
		t.Fatalf("Exec: %v", err)
	}

	_, err := repo.CopyFrom(ctx, "t", []string{"a", "b"}, [][]any{{int64(1), "x"}, {int64(2)}})
	if err == nil || !strings.Contains(err.Error(), "row length") {
		t.Fatalf("err=%v; want row length error", err)
	}
	res, err := repo.Query(ctx, `SELECT * FROM t`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.NumRows() != 0 {
		t.Fatalf("rows=%d after failed copy; want 0 (rolled back)", res.NumRows())
	}
}

func TestQueryError(t *testing.T) {
	t.Parallel()

	if _, err := newMemRepo(t).Query(context.Background(), `SELEC nonsense`); err == nil {
		t.Fatalf("Query error=nil; want syntax error")
	}
}

func TestNewRepositoryRejectsEmptyDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{DSN: "  "}); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}
