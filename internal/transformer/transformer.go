// Package transformer defines the contract shared by the table cleaning
// stages: a Stage rewrites a table and records what it did in a Report, and a
// Chain runs stages strictly in order.
//
// Stages never abort a run on malformed data. Per-cell problems degrade the
// cell to missing and are recorded in the Report; per-column problems leave
// the column unmodified and add a warning.
package transformer

import (
	"time"

	"statsetl/internal/table"
)

// Stage is one step of the cleaning pipeline.
//
// Apply may rewrite t in place and returns the table to hand to the next
// stage (which may be t itself).
type Stage interface {
	Name() string
	Apply(t *table.Table, rep *Report) *table.Table
}

// Observer is notified after each stage of a Chain completes.
type Observer func(stage string, out *table.Table, elapsed time.Duration)

// Chain is an ordered list of stages.
type Chain []Stage

// Apply runs every stage in order.
func (c Chain) Apply(t *table.Table, rep *Report) *table.Table {
	return c.Observe(t, rep, nil)
}

// Observe runs every stage in order and calls obs (when non-nil) after each one.
func (c Chain) Observe(t *table.Table, rep *Report, obs Observer) *table.Table {
	out := t
	for _, s := range c {
		start := time.Now()
		out = s.Apply(out, rep)
		if obs != nil {
			obs(s.Name(), out, time.Since(start))
		}
	}
	return out
}
