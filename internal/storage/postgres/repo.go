// Package postgres implements a Postgres repository using pgx v5. Rows are
// written with the COPY protocol.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"statsetl/internal/storage"
	pgddl "statsetl/internal/storage/postgres/ddl"
	"statsetl/internal/table"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN    string // connection string for pgxpool
	Schema string // schema catalog listings read; "public" if empty
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if cfg.Schema == "" {
		cfg.Schema = "public"
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

// CopyFrom writes rows into table with COPY FROM STDIN.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, pgx.Identifier(pgddl.SplitFQN(table)), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, describe(err))
	}
	return n, nil
}

// Exec executes a statement without results (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.pool.Exec(ctx, sqlText); err != nil {
		return describe(err)
	}
	return nil
}

// Query runs sqlText and returns the result set as a table.
func (r *Repository) Query(ctx context.Context, sqlText string) (*table.Table, error) {
	rows, err := r.pool.Query(ctx, sqlText)
	if err != nil {
		return nil, describe(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("values: %w", err)
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, describe(err)
	}
	return table.FromValues(names, out), nil
}

// Tables lists the base tables of the configured schema.
func (r *Repository) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		 ORDER BY table_name`, r.cfg.Schema)
	if err != nil {
		return nil, describe(err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Columns lists the columns of table in ordinal order.
func (r *Repository) Columns(ctx context.Context, table string) ([]storage.ColumnInfo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_schema = $1 AND table_name = $2
		 ORDER BY ordinal_position`, r.cfg.Schema, table)
	if err != nil {
		return nil, describe(err)
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.ColumnInfo, error) {
		var c storage.ColumnInfo
		err := row.Scan(&c.Name, &c.Type)
		return c, err
	})
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no such table: %s.%s", r.cfg.Schema, table)
	}
	return cols, nil
}

// normalize maps NUMERIC to float64 before the generic conversion.
func normalize(v any) any {
	if n, ok := v.(pgtype.Numeric); ok {
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return storage.NormalizeValue(v)
}

// describe surfaces the server's detail text, which pgx leaves out of Error().
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s)", err, pgErr.Detail)
	}
	return err
}
