package output

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/statcsv/pkg/extract"
)

// jsonRecord is the JSON Lines shape of one row. Values stay strings.
type jsonRecord struct {
	Time   string `json:"time"`
	Nodes  string `json:"nodes"`
	Edges  string `json:"edges"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

// JSONSink writes one JSON object per row (JSON Lines). There is no header
// line; every object carries its own keys.
type JSONSink struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewJSONSink creates a JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	buf := bufio.NewWriter(w)
	return &JSONSink{buf: buf, enc: json.NewEncoder(buf)}
}

// Name returns the format name.
func (s *JSONSink) Name() string {
	return string(FormatJSON)
}

// WriteHeader is a no-op for JSON Lines.
func (s *JSONSink) WriteHeader(_ context.Context) error {
	return nil
}

// WriteRow encodes one record.
func (s *JSONSink) WriteRow(_ context.Context, rec *extract.Record) error {
	return s.enc.Encode(jsonRecord{
		Time:   rec.Time,
		Nodes:  rec.Nodes,
		Edges:  rec.Edges,
		Source: rec.Source,
		Line:   rec.LineNum,
	})
}

// Close flushes buffered output.
func (s *JSONSink) Close() error {
	return s.buf.Flush()
}
