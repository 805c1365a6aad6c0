package transformer

import (
	"errors"
	"fmt"

	"statsetl/internal/table"
)

// sampleLimit bounds how many individual error messages a Report keeps.
const sampleLimit = 3

// Report accumulates what the stages did to one table. It is owned by a
// single pipeline run and is not safe for concurrent use.
type Report struct {
	RawRows, RawCols     int
	CleanRows, CleanCols int

	DroppedColumns []string
	DroppedRows    int // rows where every value was missing
	Duplicates     int // exact duplicate rows removed
	SplitColumns   []string

	ConversionFailures int
	PatternMismatches  int

	// Kinds maps each output column to its final kind.
	Kinds map[string]table.Kind

	// Warnings are column-level events worth surfacing to the caller
	// (renames, failed rank repair, empty input).
	Warnings []string

	// Samples holds the first few per-cell error messages.
	Samples []string

	errs []error
}

// Warn appends a formatted warning.
func (r *Report) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Record classifies err and updates the counters. Per-cell errors are counted
// and sampled; anything else becomes a warning.
func (r *Report) Record(err error) {
	if err == nil {
		return
	}
	r.errs = append(r.errs, err)

	var conv *ConversionFailure
	var mis *PatternMismatch
	switch {
	case errors.As(err, &conv):
		r.ConversionFailures++
		r.sample(err)
	case errors.As(err, &mis):
		r.PatternMismatches++
		r.sample(err)
	default:
		r.Warnings = append(r.Warnings, err.Error())
	}
}

// Errors returns every error recorded so far, in order.
func (r *Report) Errors() []error { return r.errs }

func (r *Report) sample(err error) {
	if len(r.Samples) < sampleLimit {
		r.Samples = append(r.Samples, err.Error())
	}
}

// Finish stores the output shape and column kinds.
func (r *Report) Finish(t *table.Table) {
	r.CleanRows, r.CleanCols = t.Shape()
	r.Kinds = make(map[string]table.Kind, t.NumCols())
	for _, c := range t.Columns {
		r.Kinds[c.Name] = c.Kind
	}
}
