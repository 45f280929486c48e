// Package parser provides line sources for reading log input.
package parser

// LogLine is a single input line with whitespace trimmed.
type LogLine struct {
	// Content is the line text with leading and trailing whitespace
	// (including the terminator) removed.
	Content string

	// Source names where this line came from: a file path, or "-" for stdin.
	Source string

	// LineNum is the 1-based line number within Source.
	LineNum int
}

// StdinName is the Source name used for standard input.
const StdinName = "-"
