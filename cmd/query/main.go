// Command query opens a loaded stats database and runs the interactive query
// shell over it, or a single statement with -e.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"statsetl/internal/config"
	"statsetl/internal/query"
	"statsetl/internal/storage"

	_ "statsetl/internal/storage/all"
)

func main() {
	cfgPath := flag.String("config", "", "pipeline config JSON path; its storage section is used when -dsn is empty")
	kind := flag.String("kind", "sqlite", "storage kind: sqlite, postgres, mysql or mssql")
	dsn := flag.String("dsn", "", "database DSN (a file path for sqlite)")
	schema := flag.String("schema", "", "schema used for catalog lookups")
	stmt := flag.String("e", "", "run one SQL statement and exit")
	maxRows := flag.Int("max-rows", query.DefaultMaxRows, "maximum result rows printed (0 = all)")
	flag.Parse()

	cfg, err := resolveStore(*cfgPath, *kind, *dsn, *schema)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo, err := storage.New(ctx, cfg)
	if err != nil {
		fatalf("storage: %v", err)
	}
	defer repo.Close()

	sh := query.NewShell(repo, os.Stdin, os.Stdout)
	sh.MaxRows = *maxRows
	if *stmt != "" {
		sh.RunQuery(ctx, *stmt)
		return
	}
	if err := sh.Run(ctx); err != nil && ctx.Err() == nil {
		fatalf("%v", err)
	}
}

// resolveStore picks the store connection: explicit flags win, otherwise the
// pipeline file's storage section.
func resolveStore(cfgPath, kind, dsn, schema string) (storage.Config, error) {
	if dsn != "" || cfgPath == "" {
		if dsn == "" {
			return storage.Config{}, fmt.Errorf("one of -dsn or -config is required")
		}
		return storage.Config{Kind: kind, DSN: dsn, Schema: schema}, nil
	}
	p, err := config.Load(cfgPath)
	if err != nil {
		return storage.Config{}, err
	}
	if p.Storage.Kind == "" || p.Storage.Kind == "none" {
		return storage.Config{}, fmt.Errorf("%s: no storage configured", cfgPath)
	}
	if schema == "" {
		schema = p.Storage.DB.Schema
	}
	return storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN, Schema: schema}, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
