// Package extract pulls the Time, Nodes and Edges counters out of solver
// benchmark log lines.
package extract

import (
	"regexp"
	"strings"
)

// Marker substrings that precede each captured digit run.
const (
	MarkerTime  = "Time="
	MarkerNodes = "Nodes="
	MarkerEdges = "Edges="
)

// Pattern matches a whole line containing Time=, Nodes= and Edges=, in that
// order, each followed by a run of decimal digits. Digits are any Unicode
// decimal digit (category Nd), not only ASCII 0-9. The wildcards are greedy,
// so when a marker repeats the capture comes from its last usable occurrence.
var Pattern = regexp.MustCompile(`^.*Time=(\p{Nd}+).*Nodes=(\p{Nd}+).*Edges=(\p{Nd}+).*$`)

// Header is the column row written before any data.
var Header = []string{"Time", "Nodes", "Edges"}

// Row is one extracted triple. Values are the captured digit text, never
// converted to numbers, so leading zeros survive.
type Row struct {
	Time  string
	Nodes string
	Edges string
}

// Fields returns the row values in column order.
func (r Row) Fields() []string {
	return []string{r.Time, r.Nodes, r.Edges}
}

// String returns the row as comma-joined text.
func (r Row) String() string {
	return strings.Join(r.Fields(), ",")
}

// Record is a Row together with the input line it was extracted from.
type Record struct {
	Row

	// Source is the input name (file path or "-" for stdin).
	Source string

	// LineNum is the 1-based line number within Source.
	LineNum int
}

// Match applies Pattern to a trimmed line.
func Match(line string) (Row, bool) {
	m := Pattern.FindStringSubmatch(line)
	if m == nil {
		return Row{}, false
	}
	return Row{Time: m[1], Nodes: m[2], Edges: m[3]}, true
}
