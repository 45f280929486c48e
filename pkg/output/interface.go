// Package output provides the sinks extracted rows are written to.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/statcsv/pkg/extract"
)

// Format names an output format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatTable  Format = "table"
	FormatSQLite Format = "sqlite"
)

// DefaultTable is the SQLite table rows are inserted into.
const DefaultTable = "stats"

// Formats lists every supported format, default first.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatTable, FormatSQLite}
}

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (use csv, json, table or sqlite)", s)
}

// Options controls sink construction.
type Options struct {
	// Path is the SQLite database file. Stream formats ignore it; the
	// caller opens their destination and passes it as a writer.
	Path string

	// Table is the SQLite table name. Defaults to DefaultTable.
	Table string
}

// New creates a sink for the given format. Stream formats write to w.
func New(format Format, w io.Writer, opts Options) (extract.Sink, error) {
	switch format {
	case FormatCSV, "":
		return NewCSVSink(w), nil
	case FormatJSON:
		return NewJSONSink(w), nil
	case FormatTable:
		return NewTableSink(w), nil
	case FormatSQLite:
		table := opts.Table
		if table == "" {
			table = DefaultTable
		}
		return NewSQLiteSink(opts.Path, table)
	default:
		return nil, fmt.Errorf("unknown output format %q (use csv, json, table or sqlite)", format)
	}
}
