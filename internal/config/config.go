// Package config defines the JSON pipeline file for a cleaning run and a
// small Options helper for parser-specific settings.
//
// Example:
//
//	{
//	  "job": "mlb_stats",
//	  "sources": [
//	    {"category": "hitting",  "kind": "dir", "path": "csv/hitting"},
//	    {"category": "pitching", "kind": "dir", "path": "csv/pitching"}
//	  ],
//	  "parser":  {"kind": "csv", "options": {"comma": ",", "na_values": ["N/A"]}},
//	  "clean":   {"sample_size": 20, "rank_column": "Rank", "provenance_column": "source"},
//	  "output":  {"clean_dir": "csv_clean"},
//	  "storage": {"kind": "sqlite", "db": {"dsn": "mlb_hit_pitch_stats.db", "replace": true}},
//	  "runtime": {"workers": 4}
//	}
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job labels logs and metrics.
	Job string `json:"job"`

	// Sources lists the raw inputs, one entry per category.
	Sources []Source `json:"sources"`

	Parser  Parser        `json:"parser"`
	Clean   Clean         `json:"clean"`
	Output  Output        `json:"output"`
	Storage Storage       `json:"storage"`
	Runtime RuntimeConfig `json:"runtime"`
}

// Source is one category of raw exports.
type Source struct {
	// Category is the provenance tag attached to every table from this
	// source (e.g. "hitting", "pitching").
	Category string `json:"category"`

	// Kind is "dir" (every matching file directly under Path) or "file".
	Kind string `json:"kind"`

	Path string `json:"path"`
}

// Parser selects how raw files are read.
type Parser struct {
	// Kind is "csv" or "html" (saved almanac pages).
	Kind string `json:"kind"`

	// Options is interpreted by the parser. For csv:
	//   comma (string), na_values ([]string), lazy_quotes (bool)
	Options Options `json:"options"`
}

// Clean tunes the cleaning stages.
type Clean struct {
	SampleSize       int    `json:"sample_size"`
	RankColumn       string `json:"rank_column"`
	ProvenanceColumn string `json:"provenance_column"`
}

// Output controls where clean tables are written on disk. An empty
// CleanDir disables the export.
type Output struct {
	CleanDir string `json:"clean_dir"`
}

// Storage selects the store clean tables are loaded into. An empty Kind (or
// "none") disables loading.
type Storage struct {
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig configures the store connection and load behavior.
type DBConfig struct {
	// DSN is the driver connection string (a file path for sqlite).
	DSN string `json:"dsn"`

	// Schema optionally qualifies every table name (e.g. "public").
	Schema string `json:"schema"`

	// Replace drops and recreates each table before loading. When false an
	// existing table is appended to.
	Replace bool `json:"replace"`

	// BatchSize is the number of rows per insert batch.
	BatchSize int `json:"batch_size"`
}

// RuntimeConfig controls concurrency.
type RuntimeConfig struct {
	// Workers is how many files are processed at once.
	Workers int `json:"workers"`
}

// Defaults used when the pipeline file leaves a field empty.
const (
	DefaultJob              = "statsetl"
	DefaultSampleSize       = 20
	DefaultRankColumn       = "Rank"
	DefaultProvenanceColumn = "source"
	DefaultBatchSize        = 1000
	DefaultWorkers          = 4
)

// ApplyDefaults fills zero fields with their defaults.
func (p *Pipeline) ApplyDefaults() {
	if p.Job == "" {
		p.Job = DefaultJob
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = "csv"
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	for i := range p.Sources {
		if p.Sources[i].Kind == "" {
			p.Sources[i].Kind = "dir"
		}
	}
	if p.Clean.SampleSize <= 0 {
		p.Clean.SampleSize = DefaultSampleSize
	}
	if p.Clean.RankColumn == "" {
		p.Clean.RankColumn = DefaultRankColumn
	}
	if p.Clean.ProvenanceColumn == "" {
		p.Clean.ProvenanceColumn = DefaultProvenanceColumn
	}
	if p.Storage.DB.BatchSize <= 0 {
		p.Storage.DB.BatchSize = DefaultBatchSize
	}
	if p.Runtime.Workers <= 0 {
		p.Runtime.Workers = DefaultWorkers
	}
}

// Decode reads a pipeline from r. Unknown fields are rejected so typos in
// pipeline files surface early. Defaults are applied.
func Decode(r io.Reader) (Pipeline, error) {
	var p Pipeline
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	p.ApplyDefaults()
	return p, nil
}

// Load opens path and decodes it.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Options fetches typed values from a free-form JSON object, returning the
// provided default when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Int returns the int value for key or def. encoding/json decodes numbers
// as float64, which is accepted and truncated.
func (o Options) Int(key string, def int) int {
	switch n := o[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Used for
// single-character settings such as a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if s, ok := o[key].(string); ok && len(s) > 0 {
		return []rune(s)[0]
	}
	return def
}

// StringSlice returns the strings in an array value for key; non-string
// elements are skipped. Returns nil when the key is missing or not an array.
func (o Options) StringSlice(key string) []string {
	switch vv := o[key].(type) {
	case []any:
		out := make([]string, 0, len(vv))
		for _, x := range vv {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return vv
	}
	return nil
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil, empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
