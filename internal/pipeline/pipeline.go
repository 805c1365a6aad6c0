// Package pipeline cleans one raw stats table: it runs the scrub, split,
// coerce and rank stages in order on a private copy of the input and returns
// the typed table together with a Report of what changed.
package pipeline

import (
	"log"
	"time"

	"statsetl/internal/metrics"
	"statsetl/internal/table"
	"statsetl/internal/transformer"
	"statsetl/internal/transformer/builtin"
)

// Options tune the stages. The zero value is usable.
type Options struct {
	// Job labels metrics; defaults to "statsetl".
	Job string
	// SampleSize is how many values the coercer inspects (default 20).
	SampleSize int
	// RankColumn names the column to repair (default "Rank").
	RankColumn string
	// Verbose logs the first rows of the clean table.
	Verbose bool
}

func (o Options) job() string {
	if o.Job == "" {
		return "statsetl"
	}
	return o.Job
}

// Stages returns the cleaning chain configured by o.
func Stages(o Options) transformer.Chain {
	return transformer.Chain{
		builtin.Scrub{},
		builtin.Split{},
		builtin.Coerce{SampleSize: o.SampleSize},
		builtin.RankRepair{Column: o.RankColumn},
	}
}

// Clean runs the chain on a copy of raw. raw itself is never modified, so
// calling Clean twice on the same input yields identical results.
func Clean(raw *table.Table, o Options) (*table.Table, *transformer.Report) {
	job := o.job()
	rep := &transformer.Report{}
	rep.RawRows, rep.RawCols = raw.Shape()

	out := Stages(o).Observe(raw.Clone(), rep, func(stage string, _ *table.Table, d time.Duration) {
		metrics.RecordStep(job, "clean_"+stage, nil, d)
	})
	rep.Finish(out)

	metrics.RecordRow(job, "raw_rows", int64(rep.RawRows))
	metrics.RecordRow(job, "clean_rows", int64(rep.CleanRows))
	metrics.RecordRow(job, "dropped_rows", int64(rep.DroppedRows))
	metrics.RecordRow(job, "duplicates", int64(rep.Duplicates))
	metrics.RecordRow(job, "conversion_failures", int64(rep.ConversionFailures))
	metrics.RecordRow(job, "pattern_mismatches", int64(rep.PatternMismatches))

	log.Printf("Cleaned: (%d, %d) -> (%d, %d)", rep.RawRows, rep.RawCols, rep.CleanRows, rep.CleanCols)
	for _, w := range rep.Warnings {
		log.Printf("clean: warning: %s", w)
	}
	if n := rep.ConversionFailures + rep.PatternMismatches; n > 0 {
		log.Printf("clean: %d cell(s) set to missing; first: %v", n, rep.Samples)
	}
	if o.Verbose {
		log.Printf("clean: head\n%s", out.Head(5))
	}
	return out, rep
}
