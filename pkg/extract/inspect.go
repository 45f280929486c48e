package extract

import (
	"strings"
	"unicode/utf8"
)

// Inspection describes how a line relates to Pattern. It backs the
// diagnose command.
type Inspection struct {
	Row     Row
	Matched bool

	// Counts holds how often each marker occurs in the line.
	Counts map[string]int
}

// Markers lists the marker substrings in pattern order.
var Markers = []string{MarkerTime, MarkerNodes, MarkerEdges}

// Inspect matches line and counts marker occurrences.
func Inspect(line string) Inspection {
	row, ok := Match(line)
	in := Inspection{
		Row:     row,
		Matched: ok,
		Counts:  make(map[string]int, len(Markers)),
	}
	for _, m := range Markers {
		in.Counts[m] = strings.Count(line, m)
	}
	return in
}

// MentionsMarker reports whether any marker appears in the line.
func (in Inspection) MentionsMarker() bool {
	for _, n := range in.Counts {
		if n > 0 {
			return true
		}
	}
	return false
}

// Partial reports a line that mentions a marker but did not match.
// These are usually truncated or reformatted stats lines.
func (in Inspection) Partial() bool {
	return !in.Matched && in.MentionsMarker()
}

// Repeated returns the markers that occur more than once in a matched line.
// For those markers the captured value comes from the last occurrence.
func (in Inspection) Repeated() []string {
	if !in.Matched {
		return nil
	}
	var out []string
	for _, m := range Markers {
		if in.Counts[m] > 1 {
			out = append(out, m)
		}
	}
	return out
}

// NonASCIIDigits reports a matched line whose captured values use decimal
// digits outside 0-9. Such rows are extracted verbatim, but tools that parse
// the CSV as numbers may reject them.
func (in Inspection) NonASCIIDigits() bool {
	if !in.Matched {
		return false
	}
	for _, f := range in.Row.Fields() {
		if utf8.RuneCountInString(f) != len(f) {
			return true
		}
	}
	return false
}
