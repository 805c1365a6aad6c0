package mysql

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"statsetl/internal/storage"
)

func TestInsertStatement(t *testing.T) {
	t.Parallel()

	stmt, args, err := insertStatement("stats.hitting_hr", []string{"rank", "name"}, [][]any{
		{int64(1), "Ruth"},
		{int64(2), nil},
	})
	if err != nil {
		t.Fatalf("insertStatement: %v", err)
	}
	want := "INSERT INTO `stats`.`hitting_hr` (`rank`, `name`) VALUES (?,?),(?,?)"
	if stmt != want {
		t.Fatalf("stmt=%q; want %q", stmt, want)
	}
	if !reflect.DeepEqual(args, []any{int64(1), "Ruth", int64(2), nil}) {
		t.Fatalf("args=%#v", args)
	}

	if _, _, err := insertStatement("t", []string{"a", "b"}, [][]any{{1}}); err == nil {
		t.Fatalf("expected row length error")
	}
}

func TestChunkRows(t *testing.T) {
	t.Parallel()

	rows := [][]any{{1}, {2}, {3}, {4}, {5}}
	got := chunkRows(rows, 2)
	if len(got) != 3 || len(got[0]) != 2 || len(got[2]) != 1 {
		t.Fatalf("chunkRows sizes=%d,%v", len(got), got)
	}
	if got := chunkRows(rows, 0); len(got) != 5 {
		t.Fatalf("chunkRows(size 0) len=%d; want 5", len(got))
	}
}

func TestNewRepositoryRejectsBadDSN(t *testing.T) {
	t.Parallel()

	_, _, err := NewRepository(context.Background(), Config{DSN: "not a dsn"})
	if err == nil || !strings.Contains(err.Error(), "mysql dsn") {
		t.Fatalf("err=%v; want mysql dsn error", err)
	}
}

func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind: "mysql",
		DSN:  "stats:pw@tcp(localhost:3306)/stats",
	})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if gotCfg.DSN != "stats:pw@tcp(localhost:3306)/stats" {
		t.Fatalf("hook cfg=%+v", gotCfg)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close did not invoke closeFn")
	}
}
