package storage

import (
	"context"
	"fmt"
	"sync"

	gddl "statsetl/internal/ddl"
	"statsetl/internal/metrics"
	"statsetl/internal/naming"
	"statsetl/internal/table"
)

// Dialect is the backend-specific half of table creation. Backends register
// one per storage kind at init time so that Load can stay backend-agnostic.
type Dialect struct {
	// MapType maps a column kind to a SQL type.
	MapType gddl.TypeMapper
	// CreateTable renders a statement that creates the table if it is missing.
	CreateTable func(gddl.TableDef) (string, error)
	// DropTable renders a statement that drops the table if it exists.
	DropTable func(fqn string) string
	// MaxIdent is the identifier length limit; 0 means unlimited.
	MaxIdent int
}

var (
	dialectMu sync.RWMutex
	dialects  = map[string]Dialect{}
)

// RegisterDialect registers (or replaces) the Dialect for kind.
func RegisterDialect(kind string, d Dialect) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	dialects[kind] = d
}

// DialectFor returns the Dialect registered for kind.
func DialectFor(kind string) (Dialect, error) {
	dialectMu.RLock()
	d, ok := dialects[kind]
	dialectMu.RUnlock()
	if !ok {
		return Dialect{}, fmt.Errorf("no dialect registered for storage.kind=%q", kind)
	}
	return d, nil
}

// LoadOptions controls how Load writes a table.
type LoadOptions struct {
	// Replace drops an existing table before creating it. Without it rows are
	// appended to the table, which is created when missing.
	Replace   bool
	BatchSize int
	// Job labels the batch metrics.
	Job string
}

// Load writes t into the table fqn: it creates the table from the column
// kinds (dropping it first when opts.Replace is set) and streams the rows
// through LoadBatches. Column names are used as given except that they are
// shortened to the dialect's identifier limit. It returns the number of rows
// the backend reported as written.
func Load(ctx context.Context, repo Repository, kind, fqn string, t *table.Table, opts LoadOptions) (int64, error) {
	d, err := DialectFor(kind)
	if err != nil {
		return 0, err
	}
	if t.NumCols() == 0 {
		return 0, fmt.Errorf("load %s: table has no columns", fqn)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}

	t = fitIdentifiers(t, d.MaxIdent)
	def := gddl.FromTable(fqn, t, d.MapType)
	create, err := d.CreateTable(def)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", fqn, err)
	}
	if opts.Replace {
		if err := repo.Exec(ctx, d.DropTable(fqn)); err != nil {
			return 0, fmt.Errorf("drop %s: %w", fqn, err)
		}
	}
	if err := repo.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", fqn, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, fqn, columns, rows)
		if err == nil {
			metrics.RecordBatches(opts.Job, 1)
		}
		return n, err
	}
	n, err := LoadBatches(ctx, t.Names(), RowSource(ctx, t), opts.BatchSize, copyFn)
	if err != nil {
		return n, fmt.Errorf("load %s: %w", fqn, err)
	}
	return n, nil
}

// RowSource streams the rows of t on a channel that is closed after the last
// row or when ctx is done.
func RowSource(ctx context.Context, t *table.Table) <-chan []any {
	out := make(chan []any, 64)
	go func() {
		defer close(out)
		for i := 0; i < t.NumRows(); i++ {
			select {
			case out <- t.Row(i):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// fitIdentifiers returns t with column names shortened to max bytes and made
// unique again. t itself is not modified.
func fitIdentifiers(t *table.Table, max int) *table.Table {
	if max <= 0 {
		return t
	}
	names := t.Names()
	changed := false
	for i, n := range names {
		if len(n) > max {
			names[i] = naming.Truncate(n, max)
			changed = true
		}
	}
	if !changed {
		return t
	}
	names = naming.ColumnNames(names)
	out := &table.Table{Columns: make([]table.Column, len(t.Columns))}
	copy(out.Columns, t.Columns)
	for i := range out.Columns {
		out.Columns[i].Name = names[i]
	}
	return out
}
