package parser

import "context"

// LineSource provides a lazy, non-restartable iterator over input lines.
// Implementations are for sequential use only.
type LineSource interface {
	// Next returns the next line, in arrival order.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Close releases any resources held by the source.
	Close() error
}
