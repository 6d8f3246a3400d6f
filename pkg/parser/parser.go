package parser

import (
	"strings"
	"unicode"
)

// ParseLine parses a single log line. On failure the returned error is always
// a *ParseError carrying the source, line number and original content, and
// the record is nil.
func ParseLine(line, source string, lineNum int) (*Record, error) {
	fail := func(reason string) (*Record, error) {
		return nil, &ParseError{
			Source:  source,
			LineNum: lineNum,
			Content: line,
			Reason:  reason,
		}
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return fail("Empty line")
	}

	date, rest := cutField(trimmed)
	clock, rest := cutField(rest)
	if clock == "" || rest == "" {
		return fail("Malformed log line")
	}

	ts, err := ParseTimestamp(date + " " + clock)
	if err != nil {
		return fail(err.Error())
	}

	if !strings.HasPrefix(rest, "[") {
		return fail("Missing log level")
	}
	closing := strings.IndexByte(rest, ']')
	if closing < 0 {
		return fail("Unclosed log level bracket")
	}

	level, err := ParseLevel(rest[1:closing])
	if err != nil {
		return fail(err.Error())
	}

	// Empty components ("[INFO] : msg") are accepted.
	component, message, ok := strings.Cut(strings.TrimSpace(rest[closing+1:]), ":")
	if !ok {
		return fail("Missing message")
	}

	return &Record{
		Timestamp: ts,
		Level:     level,
		Component: strings.TrimSpace(component),
		Message:   strings.TrimSpace(message),
		Source:    source,
		LineNum:   lineNum,
	}, nil
}

// cutField splits s at its first whitespace run. Leading whitespace of the
// remainder is dropped.
func cutField(s string) (field, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}
