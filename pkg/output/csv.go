package output

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/ccollicutt/statcsv/pkg/extract"
)

// CSVSink writes the header and rows as comma-separated text with LF line
// endings. Captured values are digits only, so nothing is ever quoted.
type CSVSink struct {
	w *csv.Writer
}

// NewCSVSink creates a CSV sink writing to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// Name returns the format name.
func (s *CSVSink) Name() string {
	return string(FormatCSV)
}

// WriteHeader writes Time,Nodes,Edges.
func (s *CSVSink) WriteHeader(_ context.Context) error {
	return s.w.Write(extract.Header)
}

// WriteRow writes one data row.
func (s *CSVSink) WriteRow(_ context.Context, rec *extract.Record) error {
	return s.w.Write(rec.Fields())
}

// Close flushes buffered rows and reports any write error.
func (s *CSVSink) Close() error {
	s.w.Flush()
	return s.w.Error()
}
