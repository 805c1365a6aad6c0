// Package csv reads raw stats exports into a table.Table and writes clean
// tables back out as delimited text.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"

	"statsetl/internal/table"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// NAValues are extra cell values read as missing. The empty string is
	// always missing.
	NAValues []string

	// LazyQuotes relaxes quote handling for hand-edited exports.
	LazyQuotes bool

	// OnRowError, when set, receives every skipped row.
	OnRowError func(*RowFormatError)

	// LogLimit caps how many skipped rows are logged (default 400).
	LogLimit int
}

// RowFormatError describes a body row that was skipped because it could not
// be read or its width differs from the header.
type RowFormatError struct {
	Line int // 1-based, header is line 1
	Want int
	Got  int
	Err  error // csv read error, nil for width mismatches
}

func (e *RowFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row %d: incorrect number of fields (expected %d, got %d)", e.Line, e.Want, e.Got)
}

func (e *RowFormatError) Unwrap() error { return e.Err }

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads a header row and body rows from r into a raw table. It returns
// the number of rows skipped for being unreadable or the wrong width. An
// input without a header row is an error; an input with a header and no body
// yields a table with zero rows.
func (p *Parser) Parse(r io.Reader) (*table.Table, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("read csv header: %w", io.ErrUnexpectedEOF)
		}
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	header = StripHeaderBOM(header)
	for i, h := range header {
		if h == "" {
			header[i] = fmt.Sprintf("col_%d", i)
		}
	}

	limit := p.opt.LogLimit
	if limit <= 0 {
		limit = 400
	}
	var rows [][]string
	skipped := 0
	skip := func(e *RowFormatError) {
		if skipped < limit {
			log.Printf("Skipping %v", e)
		}
		skipped++
		if p.opt.OnRowError != nil {
			p.opt.OnRowError(e)
		}
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, skipped, fmt.Errorf("read csv: %w", err)
			}
			skip(&RowFormatError{Line: line, Want: len(header), Err: err})
			continue
		}
		if len(row) != len(header) {
			skip(&RowFormatError{Line: line, Want: len(header), Got: len(row)})
			continue
		}
		rows = append(rows, row)
	}

	return table.New(header, rows, p.isNA()), skipped, nil
}

func (p *Parser) isNA() func(string) bool {
	if len(p.opt.NAValues) == 0 {
		return nil
	}
	na := make(map[string]struct{}, len(p.opt.NAValues)+1)
	na[""] = struct{}{}
	for _, v := range p.opt.NAValues {
		na[v] = struct{}{}
	}
	return func(s string) bool {
		_, ok := na[s]
		return ok
	}
}
