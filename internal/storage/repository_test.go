package storage

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"statsetl/internal/table"
)

// fakeRepo is a minimal Repository implementation for tests. It records
// statements and copied rows.
type fakeRepo struct {
	mu      sync.Mutex
	closed  bool
	execs   []string
	copied  [][]any
	tables  []string
	columns []string
	copyErr error
}

func (f *fakeRepo) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.tables = append(f.tables, table)
	f.columns = columns
	f.copied = append(f.copied, rows...)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(ctx context.Context, sql string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) Query(ctx context.Context, sql string) (*table.Table, error) {
	return &table.Table{}, nil
}

func (f *fakeRepo) Tables(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeRepo) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	return nil, nil
}

func (f *fakeRepo) Close() { f.closed = true }

func TestRegistry(t *testing.T) {
	t.Parallel()

	var got Config
	Register("fake-registry", func(_ context.Context, cfg Config) (Repository, error) {
		got = cfg
		return &fakeRepo{}, nil
	})

	cfg := Config{Kind: " Fake-Registry ", DSN: "stats.db", Schema: "main"}
	repo, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	repo.Close()
	if got != cfg {
		t.Fatalf("factory got %+v; want %+v", got, cfg)
	}

	kinds := ListKinds()
	i := sort.SearchStrings(kinds, "fake-registry")
	if i == len(kinds) || kinds[i] != "fake-registry" {
		t.Fatalf("ListKinds()=%v; missing fake-registry", kinds)
	}
	kinds[i] = "changed"
	if again := ListKinds(); reflect.DeepEqual(again, kinds) {
		t.Fatal("ListKinds returned the registry's own slice")
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "nosuchdb"})
	if err == nil || err.Error() != "unsupported storage.kind=nosuchdb" {
		t.Fatalf("unknown kind: err=%v", err)
	}

	refused := errors.New("connection refused")
	Register("fake-refused", func(context.Context, Config) (Repository, error) { return nil, refused })
	_, err = New(context.Background(), Config{Kind: "fake-refused"})
	if !errors.Is(err, refused) {
		t.Fatalf("factory error: err=%v; want wrapping %v", err, refused)
	}
}

func TestRegisterReplacesFactory(t *testing.T) {
	t.Parallel()

	first := &fakeRepo{}
	second := &fakeRepo{}
	Register("fake-replace", func(context.Context, Config) (Repository, error) { return first, nil })
	Register("fake-replace", func(context.Context, Config) (Repository, error) { return second, nil })

	repo, err := New(context.Background(), Config{Kind: "fake-replace"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if repo != second {
		t.Fatal("New used the first factory; want the replacement")
	}
}
