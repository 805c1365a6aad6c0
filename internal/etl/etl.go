// Package etl runs a pipeline file end to end: discover raw exports per
// category, clean each one, write the clean CSV and load it into the store.
package etl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"statsetl/internal/config"
	"statsetl/internal/datasource"
	"statsetl/internal/datasource/file"
	"statsetl/internal/metrics"
	"statsetl/internal/naming"
	"statsetl/internal/parser"
	csvparser "statsetl/internal/parser/csv"
	htmlparser "statsetl/internal/parser/html"
	"statsetl/internal/pipeline"
	"statsetl/internal/storage"
	"statsetl/internal/table"
	"statsetl/internal/transformer"
)

const thisMany = 3

// Summary totals a run.
type Summary struct {
	Files       int
	Cleaned     int
	Failed      int
	SkippedRows int   // malformed raw rows dropped by the parser
	RawRows     int64 // data rows read
	CleanRows   int64 // rows after cleaning
	Loaded      int64 // rows written to the store
	Failures    []string
}

// task is one raw file and the category it was collected under.
type task struct {
	category string
	path     string
	src      datasource.Source
}

// Runner executes a pipeline. Repo may be nil when storage is disabled.
type Runner struct {
	Spec    config.Pipeline
	Repo    storage.Repository
	Verbose bool

	// newParser is replaceable in tests.
	newParser func() (parser.Parser, error)
}

// Run cleans and loads every source of spec. Failures of individual files are
// logged and counted; the returned error is non-nil only when the run itself
// could not proceed (bad parser settings, canceled context).
func Run(ctx context.Context, spec config.Pipeline, repo storage.Repository, verbose bool) (Summary, error) {
	r := &Runner{Spec: spec, Repo: repo, Verbose: verbose}
	return r.Run(ctx)
}

// Run is the method form of Run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	job := r.Spec.Job
	var (
		mu  sync.Mutex
		sum Summary
		agg = newErrAgg(thisMany)
	)
	fail := func(path string, err error) {
		log.Printf("Error processing %s: %v", path, err)
		agg.add(fmt.Sprintf("%s: %v", filepath.Base(path), err))
		mu.Lock()
		sum.Failed++
		sum.Failures = append(sum.Failures, path)
		mu.Unlock()
	}

	if r.newParser == nil {
		r.newParser = func() (parser.Parser, error) { return newParser(r.Spec.Parser) }
	}
	if _, err := r.newParser(); err != nil {
		return sum, err
	}

	groups := r.discover(fail)
	for _, g := range groups {
		sum.Files += len(g)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(pickInt(r.Spec.Runtime.Workers, getenvInt("STATSETL_WORKERS", config.DefaultWorkers)))
	for _, g := range groups {
		g := g
		eg.Go(func() error {
			// Files sharing a table name run in order so the last one wins.
			for _, tk := range g {
				if err := ctx.Err(); err != nil {
					return err
				}
				t0 := time.Now()
				res, err := r.process(ctx, tk)
				metrics.RecordStep(job, "file", err, time.Since(t0))
				if err != nil {
					fail(tk.path, err)
					continue
				}
				mu.Lock()
				sum.Cleaned++
				sum.SkippedRows += res.skipped
				sum.RawRows += int64(res.rawRows)
				sum.CleanRows += int64(res.cleanRows)
				sum.Loaded += res.loaded
				mu.Unlock()
			}
			return nil
		})
	}
	err := eg.Wait()

	metrics.RecordRow(job, "row_format_errors", int64(sum.SkippedRows))
	metrics.RecordRow(job, "inserted", sum.Loaded)
	logSummary(sum, agg, time.Since(start))
	return sum, err
}

// discover expands the sources into tasks grouped by destination table.
// Group order follows the first appearance of each table.
func (r *Runner) discover(fail func(string, error)) [][]task {
	exts := extensions(r.Spec.Parser.Kind)
	var (
		order  []string
		groups = map[string][]task{}
	)
	for _, s := range r.Spec.Sources {
		files, err := file.Discover(s.Kind, s.Path, exts...)
		if err != nil {
			fail(s.Path, err)
			continue
		}
		if len(files) == 0 {
			log.Printf("discover: no %s files under %s", strings.Join(exts, "/"), s.Path)
		}
		for _, f := range files {
			name := naming.TableName(f.Path())
			if _, ok := groups[name]; !ok {
				order = append(order, name)
			} else {
				log.Printf("discover: %s also maps to table %s; the later file replaces the earlier one", f.Path(), name)
			}
			groups[name] = append(groups[name], task{category: s.Category, path: f.Path(), src: f})
		}
	}
	out := make([][]task, 0, len(order))
	for _, name := range order {
		out = append(out, groups[name])
	}
	return out
}

type result struct {
	skipped   int
	rawRows   int
	cleanRows int
	loaded    int64
}

// process reads, cleans, exports and loads one file.
func (r *Runner) process(ctx context.Context, tk task) (result, error) {
	var res result
	path := tk.path
	log.Printf("Processing %s", path)

	p, err := r.newParser()
	if err != nil {
		return res, err
	}
	rc, err := tk.src.Open(ctx)
	if err != nil {
		return res, err
	}
	raw, skipped, err := p.Parse(rc)
	rc.Close()
	if err != nil {
		return res, fmt.Errorf("parse: %w", err)
	}
	res.skipped = skipped
	res.rawRows = raw.NumRows()
	if r.Verbose {
		log.Printf("Before cleaning:\n%s", raw.Head(2))
	}

	clean, rep := pipeline.Clean(raw, pipeline.Options{
		Job:        r.Spec.Job,
		SampleSize: r.Spec.Clean.SampleSize,
		RankColumn: r.Spec.Clean.RankColumn,
		Verbose:    r.Verbose,
	})
	for _, e := range rep.Errors() {
		if errors.Is(e, transformer.ErrEmptyTable) {
			return res, e
		}
	}
	res.cleanRows = clean.NumRows()

	if dir := r.Spec.Output.CleanDir; dir != "" {
		out, err := writeClean(dir, tk.category, path, clean)
		if err != nil {
			return res, err
		}
		log.Printf("Saved cleaned file: %s", out)
	}

	if r.Repo == nil {
		return res, nil
	}
	prepared := prepareForStore(clean, r.Spec.Clean.ProvenanceColumn, tk.category)
	fqn := naming.TableName(path)
	if s := r.Spec.Storage.DB.Schema; s != "" {
		fqn = s + "." + fqn
	}
	n, err := storage.Load(ctx, r.Repo, r.Spec.Storage.Kind, fqn, prepared, storage.LoadOptions{
		Replace:   r.Spec.Storage.DB.Replace,
		BatchSize: r.Spec.Storage.DB.BatchSize,
		Job:       r.Spec.Job,
	})
	res.loaded = n
	if err != nil {
		return res, err
	}
	log.Printf("Successfully imported '%s' with %d rows.", fqn, n)
	return res, nil
}

// prepareForStore returns a copy of t with the provenance column attached and
// column names rewritten into store identifiers.
func prepareForStore(t *table.Table, provenance, category string) *table.Table {
	out := t.Clone()
	if provenance != "" {
		out.AttachProvenance(provenance, category)
	}
	names := naming.ColumnNames(out.Names())
	for i := range out.Columns {
		out.Columns[i].Name = names[i]
	}
	return out
}

// writeClean writes t to <dir>/<category>/<name>.csv and returns the path.
func writeClean(dir, category, src string, t *table.Table) (string, error) {
	base := filepath.Base(src)
	out := filepath.Join(dir, category, strings.TrimSuffix(base, filepath.Ext(base))+".csv")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create: %w", err)
	}
	if err := csvparser.WriteTable(f, t, ','); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", out, err)
	}
	return out, nil
}

// newParser builds the configured parser.
func newParser(p config.Parser) (parser.Parser, error) {
	switch strings.ToLower(p.Kind) {
	case "", "csv":
		return csvparser.NewParser(csvparser.Options{
			Comma:      p.Options.Rune("comma", ','),
			NAValues:   p.Options.StringSlice("na_values"),
			LazyQuotes: p.Options.Bool("lazy_quotes", false),
		}), nil
	case "html":
		return htmlparser.Parser{}, nil
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", p.Kind)
	}
}

func extensions(kind string) []string {
	if strings.ToLower(kind) == "html" {
		return []string{".html", ".htm"}
	}
	return []string{".csv"}
}

func logSummary(s Summary, agg *errAgg, d time.Duration) {
	log.Printf(
		"summary: files=%d cleaned=%d failed=%d raw_rows=%d clean_rows=%d skipped_rows=%d loaded=%d elapsed=%s",
		s.Files, s.Cleaned, s.Failed, s.RawRows, s.CleanRows, s.SkippedRows, s.Loaded,
		d.Truncate(time.Millisecond),
	)
	if agg.count > 0 {
		log.Printf("failures: %d (showing first %d)", agg.count, len(agg.first))
		for i, msg := range agg.first {
			log.Printf("  #%03d: %s", i+1, msg)
		}
	}
}
