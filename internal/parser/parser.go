// Package parser defines the contract shared by the raw table readers.
package parser

import (
	"io"

	"statsetl/internal/table"
)

// Parser reads one raw table from r and reports how many body rows it had
// to skip.
type Parser interface {
	Parse(r io.Reader) (*table.Table, int, error)
}
