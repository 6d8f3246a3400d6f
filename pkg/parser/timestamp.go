package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Valid field ranges for a Timestamp.
const (
	MinYear = 1970
	MaxYear = 9999
)

var fieldNames = [6]string{"year", "month", "day", "hour", "minute", "second"}

// Timestamp is a calendar date and wall-clock time with second precision.
// Day is range-checked (1-31) but not validated against the month length.
// The zero value is not a valid timestamp; use ParseTimestamp or NewTimestamp.
type Timestamp struct {
	year   int
	month  int
	day    int
	hour   int
	minute int
	second int
}

// NewTimestamp builds a Timestamp from its fields, applying the same range
// checks as ParseTimestamp.
func NewTimestamp(year, month, day, hour, minute, second int) (Timestamp, error) {
	ts := Timestamp{
		year:   year,
		month:  month,
		day:    day,
		hour:   hour,
		minute: minute,
		second: second,
	}
	if err := ts.validate(); err != nil {
		return Timestamp{}, err
	}
	return ts, nil
}

// MustTimestamp is like NewTimestamp but panics on invalid input.
// Intended for tests and package-level fixtures.
func MustTimestamp(year, month, day, hour, minute, second int) Timestamp {
	ts, err := NewTimestamp(year, month, day, hour, minute, second)
	if err != nil {
		panic(err)
	}
	return ts
}

// ParseTimestamp parses text of the form "YYYY-MM-DD HH:MM:SS". The date and
// time segments may be separated by any run of whitespace, and fields need not
// be zero-padded. The returned error describes the first problem found.
func ParseTimestamp(text string) (Timestamp, error) {
	segments := strings.Fields(text)
	if len(segments) != 2 {
		return Timestamp{}, errors.New("Invalid datetime format")
	}

	date := strings.Split(segments[0], "-")
	clock := strings.Split(segments[1], ":")
	if len(date) != 3 || len(clock) != 3 {
		return Timestamp{}, errors.New("Invalid date or time format")
	}

	texts := [6]string{date[0], date[1], date[2], clock[0], clock[1], clock[2]}
	var v [6]int
	for i, text := range texts {
		bits := 8
		if i == 0 {
			bits = 16
		}
		n, err := strconv.ParseUint(text, 10, bits)
		if err != nil {
			return Timestamp{}, fmt.Errorf("Invalid %s", fieldNames[i])
		}
		v[i] = int(n)
	}

	ts := Timestamp{year: v[0], month: v[1], day: v[2], hour: v[3], minute: v[4], second: v[5]}
	if err := ts.validate(); err != nil {
		return Timestamp{}, err
	}
	return ts, nil
}

func (t Timestamp) validate() error {
	switch {
	case t.year < MinYear || t.year > MaxYear:
		return errors.New("Year out of range")
	case t.month < 1 || t.month > 12:
		return errors.New("Month out of range")
	case t.day < 1 || t.day > 31:
		return errors.New("Day out of range")
	case t.hour < 0 || t.hour > 23:
		return errors.New("Hour out of range")
	case t.minute < 0 || t.minute > 59:
		return errors.New("Minute out of range")
	case t.second < 0 || t.second > 59:
		return errors.New("Second out of range")
	}
	return nil
}

func (t Timestamp) Year() int   { return t.year }
func (t Timestamp) Month() int  { return t.month }
func (t Timestamp) Day() int    { return t.day }
func (t Timestamp) Hour() int   { return t.hour }
func (t Timestamp) Minute() int { return t.minute }
func (t Timestamp) Second() int { return t.second }

// IsZero reports whether t is the zero value.
func (t Timestamp) IsZero() bool {
	return t == Timestamp{}
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after u, comparing (year, month, day, hour, minute, second) in order.
func (t Timestamp) Compare(u Timestamp) int {
	a := [6]int{t.year, t.month, t.day, t.hour, t.minute, t.second}
	b := [6]int{u.year, u.month, u.day, u.hour, u.minute, u.second}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Before reports whether t is strictly earlier than u.
func (t Timestamp) Before(u Timestamp) bool { return t.Compare(u) < 0 }

// After reports whether t is strictly later than u.
func (t Timestamp) After(u Timestamp) bool { return t.Compare(u) > 0 }

// Equal reports whether t and u denote the same instant.
func (t Timestamp) Equal(u Timestamp) bool { return t == u }

// String renders t as zero-padded "YYYY-MM-DD HH:MM:SS".
func (t Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		t.year, t.month, t.day, t.hour, t.minute, t.second)
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timestamp) UnmarshalText(text []byte) error {
	ts, err := ParseTimestamp(string(text))
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", string(text), err)
	}
	*t = ts
	return nil
}
