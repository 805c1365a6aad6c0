// Package query is the interactive shell over a loaded stats database: list
// tables, show a table's columns, run ad-hoc SQL.
package query

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"statsetl/internal/storage"
	"statsetl/internal/table"
)

// Store is the part of a storage.Repository the shell uses.
type Store interface {
	Query(ctx context.Context, sql string) (*table.Table, error)
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]storage.ColumnInfo, error)
}

// DefaultMaxRows caps how many result rows the shell prints.
const DefaultMaxRows = 200

// Shell is a menu-driven read/eval loop. Errors from the store are printed
// and the loop continues; only input and output failures end it.
type Shell struct {
	store   Store
	in      *bufio.Scanner
	out     io.Writer
	MaxRows int
}

// NewShell returns a Shell reading choices from in and printing to out.
func NewShell(store Store, in io.Reader, out io.Writer) *Shell {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Shell{store: store, in: sc, out: out, MaxRows: DefaultMaxRows}
}

const menu = `
Options:
1 - List tables
2 - Show columns in a table
3 - Run a custom SQL query
4 - Exit
`

// Run loops until the user picks 4, input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Query Tool")
loop:
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, menu)
		choice, ok := s.prompt("Select an option (1-4): ")
		if !ok {
			break loop
		}
		switch strings.TrimSpace(choice) {
		case "1":
			s.listTables(ctx)
		case "2":
			name, ok := s.prompt("Enter table name: ")
			if !ok {
				break loop
			}
			s.showColumns(ctx, strings.TrimSpace(name))
		case "3":
			q, ok := s.prompt("\nEnter your SQL query (in a single line; Press Enter to continue):\n> ")
			if !ok {
				break loop
			}
			s.RunQuery(ctx, q)
		case "4":
			fmt.Fprintln(s.out, "Exit complete")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid option. Try again.")
		}
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintln(s.out, "Exit complete")
	return nil
}

// RunQuery executes one statement and prints its result.
func (s *Shell) RunQuery(ctx context.Context, q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		fmt.Fprintln(s.out, "Query failed: empty query")
		return
	}
	res, err := s.store.Query(ctx, q)
	if err != nil {
		fmt.Fprintf(s.out, "Query failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "\nQuery Result:")
	if res.NumRows() == 0 {
		fmt.Fprintln(s.out, "Query executed successfully but returned no rows.")
		return
	}
	_ = Render(s.out, res, s.MaxRows)
}

func (s *Shell) listTables(ctx context.Context) {
	names, err := s.store.Tables(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error listing tables: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "\nAvailable Tables:")
	if len(names) == 0 {
		fmt.Fprintln(s.out, "(none)")
		return
	}
	for _, n := range names {
		fmt.Fprintln(s.out, n)
	}
}

func (s *Shell) showColumns(ctx context.Context, name string) {
	cols, err := s.store.Columns(ctx, name)
	if err != nil {
		fmt.Fprintf(s.out, "Error showing columns: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "\nColumns in '%s':\n", name)
	rows := make([][]any, len(cols))
	for i, c := range cols {
		rows[i] = []any{c.Name, c.Type}
	}
	_ = Render(s.out, table.FromValues([]string{"column", "type"}, rows), 0)
}

func (s *Shell) prompt(text string) (string, bool) {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}
