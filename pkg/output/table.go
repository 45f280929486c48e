package output

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccollicutt/statcsv/pkg/extract"
)

// TableSink collects rows and renders them as a bordered terminal table
// on Close. Colors are only emitted when w is a terminal.
type TableSink struct {
	w    io.Writer
	r    *lipgloss.Renderer
	rows [][]string
}

// NewTableSink creates a table sink writing to w.
func NewTableSink(w io.Writer) *TableSink {
	return &TableSink{w: w, r: lipgloss.NewRenderer(w)}
}

// Name returns the format name.
func (s *TableSink) Name() string {
	return string(FormatTable)
}

// WriteHeader is deferred to Close; the header is always rendered.
func (s *TableSink) WriteHeader(_ context.Context) error {
	return nil
}

// WriteRow buffers one row.
func (s *TableSink) WriteRow(_ context.Context, rec *extract.Record) error {
	s.rows = append(s.rows, rec.Fields())
	return nil
}

// Close renders the table.
func (s *TableSink) Close() error {
	headerStyle := s.r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle := s.r.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.r.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(extract.Header...).
		Rows(s.rows...)

	if _, err := fmt.Fprintln(s.w, t.Render()); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}
