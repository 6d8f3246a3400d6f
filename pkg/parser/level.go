package parser

import (
	"fmt"
	"strings"
)

// Level is the severity of a log record. Levels are ordered by verbosity
// rank, Trace being the most verbose and Fatal the least.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// levelNames holds the canonical text of each level, indexed by rank.
var levelNames = [...]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

// Levels returns every level in rank order.
func Levels() []Level {
	return []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}
}

// ParseLevel converts text such as "info" or " ERROR " to a Level.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseLevel(text string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(text))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("Invalid log level: %s", text)
}

// Valid reports whether l is one of the six defined levels.
func (l Level) Valid() bool {
	return l >= LevelTrace && l <= LevelFatal
}

// Rank returns the verbosity rank of l (0 for Trace through 5 for Fatal).
func (l Level) Rank() int {
	return int(l)
}

// Less reports whether l ranks below other.
func (l Level) Less(other Level) bool {
	return l.Rank() < other.Rank()
}

// AtLeast reports whether l is at or above threshold.
func (l Level) AtLeast(threshold Level) bool {
	return l.Rank() >= threshold.Rank()
}

// String returns the canonical uppercase name.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
