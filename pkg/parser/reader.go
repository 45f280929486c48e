package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReaderSource implements LineSource over an arbitrary reader such as stdin.
// Lines have no length limit. A final line without a terminator is still
// returned.
type ReaderSource struct {
	r       *bufio.Reader
	name    string
	lineNum int
	done    bool
}

// NewReaderSource creates a LineSource reading from r. The name is reported
// as the Source of every line.
func NewReaderSource(r io.Reader, name string) *ReaderSource {
	return &ReaderSource{
		r:    bufio.NewReaderSize(r, 64*1024),
		name: name,
	}
}

// Next returns the next trimmed line.
func (s *ReaderSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	raw, err := s.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		s.done = true
		if raw == "" {
			return nil, io.EOF
		}
	}

	s.lineNum++
	return &LogLine{
		Content: strings.TrimSpace(raw),
		Source:  s.name,
		LineNum: s.lineNum,
	}, nil
}

// Close is a no-op; the caller owns the underlying reader.
func (s *ReaderSource) Close() error {
	return nil
}
