package storage

import (
	"context"
	"errors"
	"log"
	"time"
)

// CopyFn inserts one batch of rows, aligned to columns, and returns how many
// rows the backend reported as written. It must not retain rows after
// returning.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

var (
	errBatchSize = errors.New("load: batch size must be > 0")
	errNoCopyFn  = errors.New("load: copy function is nil")
)

// batcher accumulates rows and hands full batches to a CopyFn. It tracks
// totals for the progress log.
type batcher struct {
	columns []string
	copyFn  CopyFn
	rows    [][]any

	total   int64
	batches int
	start   time.Time
	last    time.Time
}

func (b *batcher) add(ctx context.Context, row []any) error {
	b.rows = append(b.rows, row)
	if len(b.rows) < cap(b.rows) {
		return nil
	}
	return b.flush(ctx)
}

func (b *batcher) flush(ctx context.Context) error {
	if len(b.rows) == 0 {
		return nil
	}
	n, err := b.copyFn(ctx, b.columns, b.rows)
	b.total += n
	b.rows = b.rows[:0]
	if err != nil {
		log.Printf("load: batch #%d failed after %d rows: %v", b.batches+1, b.total, err)
		return err
	}
	b.batches++

	now := time.Now()
	var rps float64
	if d := now.Sub(b.last); d > 0 {
		rps = float64(n) / d.Seconds()
	}
	log.Printf("load: batch #%d rows=%d total=%d rps=%.0f elapsed=%s",
		b.batches, n, b.total, rps, now.Sub(b.start).Truncate(time.Millisecond))
	b.last = now
	return nil
}

// LoadBatches drains in into batches of batchSize rows and writes each with
// copyFn. It returns the rows written so far together with the first copy
// error, or ctx.Err() when the context ends before in is closed.
func LoadBatches(ctx context.Context, columns []string, in <-chan []any, batchSize int, copyFn CopyFn) (int64, error) {
	if batchSize <= 0 {
		return 0, errBatchSize
	}
	if copyFn == nil {
		return 0, errNoCopyFn
	}

	now := time.Now()
	b := &batcher{
		columns: columns,
		copyFn:  copyFn,
		rows:    make([][]any, 0, batchSize),
		start:   now,
		last:    now,
	}
	for {
		select {
		case <-ctx.Done():
			return b.total, ctx.Err()
		case row, ok := <-in:
			if !ok {
				if err := b.flush(ctx); err != nil {
					return b.total, err
				}
				log.Printf("load: done batches=%d total=%d elapsed=%s",
					b.batches, b.total, time.Since(b.start).Truncate(time.Millisecond))
				return b.total, nil
			}
			if err := b.add(ctx, row); err != nil {
				return b.total, err
			}
		}
	}
}
