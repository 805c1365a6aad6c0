// Package file implements local filesystem sources: single raw exports,
// directories of exports, and line-based URL lists.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"statsetl/internal/datasource"
)

var _ datasource.Source = (*Local)(nil)

// Local opens one file from the local disk. It is safe for concurrent use.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the file the source reads.
func (l *Local) Path() string { return l.path }

// Open opens the file. A context that is already done short-circuits without
// touching the filesystem. Filesystem errors are wrapped with the path and
// still satisfy errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
