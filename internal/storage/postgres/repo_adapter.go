// Package postgres provides a Postgres-backed storage.Repository implementation.
// The adapter registers a constructor and a DDL dialect with the storage
// factory at init time, so callers obtain a Repository via storage.New
// without importing this package directly.
package postgres

import (
	"context"

	"statsetl/internal/storage"
	pgddl "statsetl/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Schema: cfg.Schema})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDialect("postgres", storage.Dialect{
		MapType:     pgddl.MapType,
		CreateTable: pgddl.BuildCreateTableSQL,
		DropTable:   pgddl.BuildDropTableSQL,
		MaxIdent:    pgddl.MaxIdent,
	})
}
