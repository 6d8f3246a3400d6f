package parser

import (
	"errors"
	"testing"
)

func TestParseLine_Valid(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantTS    string
		wantLevel Level
		wantComp  string
		wantMsg   string
	}{
		{
			name:      "basic",
			line:      "2024-01-15 10:23:45 [INFO] app: Started successfully",
			wantTS:    "2024-01-15 10:23:45",
			wantLevel: LevelInfo,
			wantComp:  "app",
			wantMsg:   "Started successfully",
		},
		{
			name:      "lowercase level and padding",
			line:      "  2024-1-5 7:03:09   [error]   db.pool :  connection lost  ",
			wantTS:    "2024-01-05 07:03:09",
			wantLevel: LevelError,
			wantComp:  "db.pool",
			wantMsg:   "connection lost",
		},
		{
			name:      "message contains colons",
			line:      "2024-01-15 10:23:45 [WARN] http: GET /a: 404",
			wantTS:    "2024-01-15 10:23:45",
			wantLevel: LevelWarn,
			wantComp:  "http",
			wantMsg:   "GET /a: 404",
		},
		{
			name:      "empty component",
			line:      "2024-01-15 10:23:45 [DEBUG] : orphan message",
			wantTS:    "2024-01-15 10:23:45",
			wantLevel: LevelDebug,
			wantComp:  "",
			wantMsg:   "orphan message",
		},
		{
			name:      "empty message",
			line:      "2024-01-15 10:23:45 [FATAL] kernel:",
			wantTS:    "2024-01-15 10:23:45",
			wantLevel: LevelFatal,
			wantComp:  "kernel",
			wantMsg:   "",
		},
		{
			name:      "no space after bracket",
			line:      "2024-01-15 10:23:45 [TRACE]app: x",
			wantTS:    "2024-01-15 10:23:45",
			wantLevel: LevelTrace,
			wantComp:  "app",
			wantMsg:   "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line, "app.log", 7)
			if err != nil {
				t.Fatalf("ParseLine() error: %v", err)
			}
			if rec.Timestamp.String() != tt.wantTS {
				t.Errorf("Timestamp = %s, want %s", rec.Timestamp, tt.wantTS)
			}
			if rec.Level != tt.wantLevel {
				t.Errorf("Level = %s, want %s", rec.Level, tt.wantLevel)
			}
			if rec.Component != tt.wantComp {
				t.Errorf("Component = %q, want %q", rec.Component, tt.wantComp)
			}
			if rec.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", rec.Message, tt.wantMsg)
			}
			if rec.Source != "app.log" || rec.LineNum != 7 {
				t.Errorf("origin = %s:%d, want app.log:7", rec.Source, rec.LineNum)
			}
		})
	}
}

func TestParseLine_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantReason string
	}{
		{"empty", "", "Empty line"},
		{"whitespace only", "   \t ", "Empty line"},
		{"prose", "This is not a valid log line", "Malformed log line"},
		{"single token", "2024-01-15", "Malformed log line"},
		{"timestamp only", "2024-01-15 10:23:45", "Malformed log line"},
		{"bad date", "2024-13-15 10:23:45 [INFO] app: x", "Month out of range"},
		{"bad time", "2024-01-15 10:23 [INFO] app: x", "Invalid date or time format"},
		{"no level", "2024-01-15 10:23:45 app: x", "Missing log level"},
		{"unclosed bracket", "2024-01-15 10:23:45 [INFO app: x", "Unclosed log level bracket"},
		{"unknown level", "2024-01-15 10:23:45 [NOTICE] app: x", "Invalid log level: NOTICE"},
		{"empty level", "2024-01-15 10:23:45 [] app: x", "Invalid log level: "},
		{"no colon", "2024-01-15 10:23:45 [INFO] app started", "Missing message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line, "svc.log", 3)
			if err == nil {
				t.Fatalf("ParseLine() = %+v, want error %q", rec, tt.wantReason)
			}
			if rec != nil {
				t.Errorf("ParseLine() returned record alongside error")
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", pe.Reason, tt.wantReason)
			}
			if pe.Source != "svc.log" || pe.LineNum != 3 || pe.Content != tt.line {
				t.Errorf("ParseError = %+v, want origin svc.log:3 and original content", pe)
			}
		})
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{Source: "a.log", LineNum: 12, Content: "x", Reason: "Malformed log line"}
	if got := err.Error(); got != "a.log:12: Malformed log line" {
		t.Errorf("Error() = %q", got)
	}
}
