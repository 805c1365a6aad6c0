// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface every backend implements, a factory keyed by
// storage kind, per-kind DDL registration and the table loader.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"statsetl/internal/table"
)

// Config selects and configures a backend.
type Config struct {
	Kind string // "sqlite", "postgres", "mssql", "mysql"
	DSN  string
	// Schema scopes catalog listings. Backends apply their own default
	// ("main", "public", "dbo" or the connection's database) when empty.
	Schema string
}

// ColumnInfo describes a column as reported by the database catalog.
type ColumnInfo struct {
	Name string
	Type string
}

// Repository is the contract between the pipeline and a database backend.
//
// CopyFrom inserts rows (aligned to columns) into an existing table using the
// backend's fastest bulk path. Exec runs a statement without results,
// typically DDL. Query runs a statement and returns its result set as a
// table. Tables and Columns read the catalog for the query shell.
type Repository interface {
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Exec(ctx context.Context, sql string) error
	Query(ctx context.Context, sql string) (*table.Table, error)
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]ColumnInfo, error)
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init; see package storage/all.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[strings.ToLower(strings.TrimSpace(cfg.Kind))]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	repo, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Kind, err)
	}
	return repo, nil
}

// ListKinds returns the registered kinds in sorted order. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
