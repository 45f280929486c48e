package extract

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/statcsv/pkg/parser"
)

// Sink receives the header and extracted rows.
type Sink interface {
	// WriteHeader writes the column header. Called exactly once, before
	// any row and before the first input line is read.
	WriteHeader(ctx context.Context) error

	// WriteRow writes a single extracted record.
	WriteRow(ctx context.Context, rec *Record) error

	// Close flushes buffered output and releases resources.
	Close() error

	// Name returns the sink format name (csv, json, table, sqlite).
	Name() string
}

// Stats summarizes one extraction pass.
type Stats struct {
	LinesRead   int
	RowsWritten int
	Duration    time.Duration
}

// Run writes the header to sink, then reads src to the end, writing one row
// per matching line. Lines that do not match are dropped silently.
// The caller closes both src and sink.
func Run(ctx context.Context, src parser.LineSource, sink Sink) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	if err := sink.WriteHeader(ctx); err != nil {
		return stats, fmt.Errorf("writing header: %w", err)
	}

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.LinesRead++

		row, ok := Match(line.Content)
		if !ok {
			continue
		}

		rec := &Record{Row: row, Source: line.Source, LineNum: line.LineNum}
		if err := sink.WriteRow(ctx, rec); err != nil {
			return stats, fmt.Errorf("writing row for %s:%d: %w", line.Source, line.LineNum, err)
		}
		stats.RowsWritten++
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
