package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const samplePipeline = `{
  "job": "mlb_stats",
  "sources": [
    {"category": "hitting", "kind": "dir", "path": "csv/hitting"},
    {"category": "pitching", "path": "csv/pitching"}
  ],
  "parser": {"kind": "csv", "options": {"comma": ";", "na_values": ["N/A", "--"]}},
  "output": {"clean_dir": "csv_clean"},
  "storage": {"kind": "sqlite", "db": {"dsn": "stats.db", "replace": true}}
}`

func TestDecodeAppliesDefaults(t *testing.T) {
	t.Parallel()

	p, err := Decode(strings.NewReader(samplePipeline))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Sources[1].Kind != "dir" {
		t.Fatalf("sources[1].kind=%q; want dir", p.Sources[1].Kind)
	}
	if p.Clean.SampleSize != DefaultSampleSize || p.Clean.RankColumn != "Rank" || p.Clean.ProvenanceColumn != "source" {
		t.Fatalf("clean defaults=%+v", p.Clean)
	}
	if p.Storage.DB.BatchSize != DefaultBatchSize || p.Runtime.Workers != DefaultWorkers {
		t.Fatalf("batch=%d workers=%d", p.Storage.DB.BatchSize, p.Runtime.Workers)
	}
	if got := p.Parser.Options.Rune("comma", ','); got != ';' {
		t.Fatalf("comma=%q; want ';'", got)
	}
	if got, want := p.Parser.Options.StringSlice("na_values"), []string{"N/A", "--"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("na_values=%v; want %v", got, want)
	}
	if issues := ValidatePipeline(p); HasErrors(issues) {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	if _, err := Decode(strings.NewReader(`{"job":"x","sauces":[]}`)); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pipeline.json")
	if err := os.WriteFile(path, []byte(samplePipeline), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Job != "mlb_stats" || len(p.Sources) != 2 {
		t.Fatalf("loaded %+v", p)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestOptionsAccessors(t *testing.T) {
	t.Parallel()

	o := Options{
		"s":     "x",
		"b":     true,
		"n":     float64(7),
		"i":     3,
		"empty": "",
		"list":  []any{"a", 1.0, "b"},
	}
	if o.String("s", "d") != "x" || o.String("n", "d") != "d" {
		t.Fatalf("String accessor")
	}
	if !o.Bool("b", false) || o.Bool("s", false) {
		t.Fatalf("Bool accessor")
	}
	if o.Int("n", 0) != 7 || o.Int("i", 0) != 3 || o.Int("s", 9) != 9 {
		t.Fatalf("Int accessor")
	}
	if o.Rune("empty", ',') != ',' || o.Rune("s", ',') != 'x' {
		t.Fatalf("Rune accessor")
	}
	if got := o.StringSlice("list"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("StringSlice=%v", got)
	}
	if o.StringSlice("missing") != nil {
		t.Fatalf("StringSlice(missing) should be nil")
	}
}

func TestOptionsNullDecodesEmpty(t *testing.T) {
	t.Parallel()

	p, err := Decode(strings.NewReader(`{"job":"x","parser":{"kind":"csv","options":null}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Parser.Options == nil {
		t.Fatalf("options should be non-nil")
	}
}
