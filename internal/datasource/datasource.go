// Package datasource defines where raw stats tables come from. Concrete
// sources live in subpackages: file for exports on local disk and httpds for
// pages fetched from the almanac site.
package datasource

import (
	"context"
	"io"
)

// Source opens one raw input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
