// Package parser turns raw log lines into structured records.
//
// The accepted line format is fixed:
//
//	YYYY-MM-DD HH:MM:SS [LEVEL] component: message
package parser

import "fmt"

// Record is a successfully parsed log line.
type Record struct {
	// Timestamp is when the event was logged.
	Timestamp Timestamp

	// Level is the severity in brackets.
	Level Level

	// Component is the text before the first colon, trimmed. It may be empty.
	Component string

	// Message is the text after the first colon, trimmed. It may be empty.
	Message string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// ParseError describes a line that could not be parsed.
type ParseError struct {
	// Source is the file path the line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// Content is the original line, unmodified.
	Content string

	// Reason is a human-readable description of the first problem found.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.LineNum, e.Reason)
}

// FileResult holds everything read from a single source.
type FileResult struct {
	// Source is the file path that was read.
	Source string

	// Records are the successfully parsed lines, in file order.
	Records []Record

	// Errors are the lines that were skipped, in file order.
	Errors []*ParseError

	// LinesRead counts every line scanned, including blank and invalid ones.
	LinesRead int
}
