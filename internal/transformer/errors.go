package transformer

import (
	"errors"
	"fmt"
)

// ErrEmptyTable reports a table without any usable structure (no columns or
// no rows left after scrubbing). It is recorded, not returned: the pipeline
// still produces an (empty) clean table.
var ErrEmptyTable = errors.New("table is empty")

// ConversionFailure is a cell in a numeric-candidate column that could not be
// parsed as a number. The cell becomes missing.
type ConversionFailure struct {
	Column string
	Row    int
	Value  string
}

func (e *ConversionFailure) Error() string {
	return fmt.Sprintf("column %q row %d: cannot convert %q to a number", e.Column, e.Row, e.Value)
}

// PatternMismatch is a cell in a composite column that does not have the
// "primary (alternate)" shape. Both derived cells become missing.
type PatternMismatch struct {
	Column string
	Row    int
	Value  string
}

func (e *PatternMismatch) Error() string {
	return fmt.Sprintf("column %q row %d: %q is not a composite value", e.Column, e.Row, e.Value)
}

// SequenceRepairFailure means the rank column could not be reconstructed; the
// column is left as it was before the repair.
type SequenceRepairFailure struct {
	Column string
	Row    int
	Err    error
}

func (e *SequenceRepairFailure) Error() string {
	return fmt.Sprintf("repair %q at row %d: %v", e.Column, e.Row, e.Err)
}

func (e *SequenceRepairFailure) Unwrap() error { return e.Err }
