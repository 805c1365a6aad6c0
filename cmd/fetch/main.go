// Command fetch downloads almanac stats pages and saves each page's stats
// table as a raw CSV file named after the page title.
//
// Pages come from URL arguments, a -list file (one URL per line), or the
// "career" links of a category index page (-index with -category). With
// -html the arguments are saved pages on disk instead of URLs.
//
// One JSON line per page is printed to stdout.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	fileds "statsetl/internal/datasource/file"
	"statsetl/internal/datasource/httpds"
	csvparser "statsetl/internal/parser/csv"
	htmlparser "statsetl/internal/parser/html"
	"statsetl/internal/table"

	"golang.org/x/sync/errgroup"
)

// logRecord is one JSON log line.
type logRecord struct {
	Source     string `json:"source"`
	DurationMs int64  `json:"duration_ms"`
	Rows       int    `json:"rows"`
	Skipped    int    `json:"skipped_rows,omitempty"`
	File       string `json:"file,omitempty"`
	Error      string `json:"error,omitempty"`
}

func main() {
	listFile := flag.String("list", "", "path to a file with one page URL per line")
	index := flag.String("index", "", "category index page whose career links are fetched")
	category := flag.String("category", "", "category path used with -index (e.g. pitching)")
	savedHTML := flag.Bool("html", false, "treat arguments as saved HTML files instead of URLs")
	outDir := flag.String("out", "csv", "directory for the extracted CSV files")
	threads := flag.Int("n", 4, "number of concurrent workers")
	timeout := flag.Duration("t", 30*time.Second, "HTTP timeout per request, example 60s")
	flag.Parse()

	if *threads <= 0 {
		fatalf("number of workers (-n) must be > 0")
	}
	if *index != "" && *category == "" {
		fatalf("-index requires -category")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("failed to create output directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := httpds.NewClient(httpds.Config{
		Timeout:        *timeout,
		MaxRetries:     2,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	})

	sources := flag.Args()
	if *listFile != "" {
		urls, err := fileds.ReadList(*listFile)
		if err != nil {
			fatalf("error reading urls: %v", err)
		}
		sources = append(sources, urls...)
	}
	if *index != "" {
		links, err := careerLinks(ctx, client, *index, *category)
		if err != nil {
			fatalf("index %s: %v", *index, err)
		}
		sources = append(sources, links...)
	}
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to fetch")
		return
	}

	read := func(ctx context.Context, src string) ([]byte, error) {
		return client.FetchPage(ctx, src)
	}
	if *savedHTML {
		read = func(_ context.Context, src string) ([]byte, error) { return os.ReadFile(src) }
	}

	failed := run(ctx, sources, *threads, *outDir, read, json.NewEncoder(os.Stdout))
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d pages failed\n", failed, len(sources))
		os.Exit(1)
	}
}

// run converts every source with at most workers in flight and returns the
// number of failures. Log records are encoded in completion order.
func run(ctx context.Context, sources []string, workers int, outDir string,
	read func(context.Context, string) ([]byte, error), enc *json.Encoder) int {
	var (
		mu     sync.Mutex
		failed atomic.Int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, src := range sources {
		g.Go(func() error {
			start := time.Now()
			rec := logRecord{Source: src}
			body, err := read(ctx, src)
			if err == nil {
				rec, err = convert(body, src, outDir)
			}
			rec.DurationMs = time.Since(start).Milliseconds()
			if err != nil {
				rec.Error = err.Error()
				failed.Add(1)
			}
			mu.Lock()
			_ = enc.Encode(rec)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

// convert extracts the stats table of page and writes it under outDir as
// <title stem>.csv, falling back to a stem derived from src when the page
// has no usable title.
func convert(page []byte, src, outDir string) (logRecord, error) {
	rec := logRecord{Source: src}
	doc, err := htmlparser.Parse(bytes.NewReader(page))
	if err != nil {
		return rec, err
	}
	header, rows, skipped, err := doc.Table()
	rec.Skipped = skipped
	if err != nil {
		return rec, err
	}

	stem := htmlparser.FileStem(doc.Title())
	if stem == "" {
		stem = httpds.StemFromURL(src)
	}
	path := filepath.Join(outDir, stem+".csv")

	f, err := os.Create(path)
	if err != nil {
		return rec, err
	}
	if err := csvparser.WriteTable(f, table.New(header, rows, nil), ','); err != nil {
		f.Close()
		return rec, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return rec, err
	}
	rec.File = path
	rec.Rows = len(rows)
	return rec, nil
}

// careerLinks fetches an index page and returns its career leader links for
// category.
func careerLinks(ctx context.Context, client *httpds.Client, index, category string) ([]string, error) {
	base, err := url.Parse(index)
	if err != nil {
		return nil, err
	}
	body, err := client.FetchPage(ctx, index)
	if err != nil {
		return nil, err
	}
	doc, err := htmlparser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return doc.CareerLinks(base, category), nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
