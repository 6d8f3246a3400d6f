package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/logtally/pkg/parser"
)

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew_Defaults(t *testing.T) {
	a := New(WithWorkers(0))
	if a.workers < 1 {
		t.Errorf("workers = %d, want at least 1", a.workers)
	}
	if a.timeRange != nil || a.minLevel != nil {
		t.Error("expected no filters by default")
	}

	if a := New(WithWorkers(3)); a.workers != 3 {
		t.Errorf("workers = %d, want 3", a.workers)
	}
	if a := New(WithTimeRange(nil, nil)); a.timeRange != nil {
		t.Error("WithTimeRange(nil, nil) should not install a filter")
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	dir := t.TempDir()
	first := writeLog(t, dir, "a.log",
		"2024-01-15 10:23:45 [INFO] app: Started successfully",
		"This is not a valid log line",
		"2024-01-15 10:24:00 [ERROR] db: Connection refused",
	)
	second := writeLog(t, dir, "b.log",
		"2024-01-15 09:00:00 [WARN] app: Slow",
		"2024-01-15 11:00:00 [INFO] web: Request",
	)

	result, err := New(WithWorkers(2)).Analyze(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if len(result.Records) != 4 {
		t.Fatalf("got %d records, want 4", len(result.Records))
	}
	if result.Records[0].Source != first || result.Records[2].Source != second {
		t.Error("records should be grouped by source in input order")
	}
	if len(result.ParseErrors) != 1 || result.ParseErrors[0].LineNum != 2 {
		t.Errorf("ParseErrors = %v", result.ParseErrors)
	}
	if len(result.FileErrors) != 0 {
		t.Errorf("FileErrors = %v", result.FileErrors)
	}

	stats := result.Statistics
	if stats.TotalEntries != 4 || stats.ErrorCount != 1 {
		t.Errorf("totals = %d/%d, want 4/1", stats.TotalEntries, stats.ErrorCount)
	}
	if *stats.MostActiveComponent != "app" {
		t.Errorf("MostActiveComponent = %s, want app", *stats.MostActiveComponent)
	}
	if stats.FirstEntry.String() != "2024-01-15 09:00:00" {
		t.Errorf("FirstEntry = %s", stats.FirstEntry)
	}

	md := result.Metadata
	if len(md.Sources) != 2 || md.LinesRead != 5 || md.Filtered != 0 {
		t.Errorf("metadata = %+v", md)
	}
	if md.EndTime.Before(md.StartTime) {
		t.Error("EndTime before StartTime")
	}
}

func TestAnalyzer_Analyze_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "good.log", "2024-01-15 10:23:45 [ERROR] app: boom")
	missing := filepath.Join(dir, "missing.log")

	result, err := New().Analyze(context.Background(), []string{missing, good})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if len(result.FileErrors) != 1 {
		t.Fatalf("got %d file errors, want 1", len(result.FileErrors))
	}
	fe := result.FileErrors[0]
	if fe.Source != missing || !errors.Is(fe, os.ErrNotExist) {
		t.Errorf("FileError = %v", fe)
	}
	if result.Statistics.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", result.Statistics.TotalEntries)
	}
	if len(result.Metadata.Sources) != 1 || result.Metadata.Sources[0] != good {
		t.Errorf("Sources = %v, want [%s]", result.Metadata.Sources, good)
	}
}

func TestAnalyzer_Analyze_Filters(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log",
		"2024-01-15 08:00:00 [ERROR] app: too early",
		"2024-01-15 10:00:00 [DEBUG] app: too quiet",
		"2024-01-15 10:00:00 [WARN] app: kept",
		"2024-01-15 12:00:00 [FATAL] app: kept at bound",
		"2024-01-15 12:00:01 [ERROR] app: too late",
	)

	since := parser.MustTimestamp(2024, 1, 15, 9, 0, 0)
	until := parser.MustTimestamp(2024, 1, 15, 12, 0, 0)

	result, err := New(
		WithTimeRange(&since, &until),
		WithMinLevel(parser.LevelWarn),
	).Analyze(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if result.Statistics.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d, want 2", result.Statistics.TotalEntries)
	}
	if result.Metadata.Filtered != 3 {
		t.Errorf("Filtered = %d, want 3", result.Metadata.Filtered)
	}
	if result.Metadata.MinLevel == nil || *result.Metadata.MinLevel != parser.LevelWarn {
		t.Error("MinLevel not recorded in metadata")
	}
	if result.Metadata.TimeRange == nil {
		t.Error("TimeRange not recorded in metadata")
	}
}

func TestTimeRange_Contains(t *testing.T) {
	since := parser.MustTimestamp(2024, 1, 1, 0, 0, 0)
	until := parser.MustTimestamp(2024, 12, 31, 23, 59, 59)
	inside := parser.MustTimestamp(2024, 6, 1, 12, 0, 0)
	before := parser.MustTimestamp(2023, 12, 31, 23, 59, 59)

	tests := []struct {
		name string
		r    TimeRange
		ts   parser.Timestamp
		want bool
	}{
		{"inside", TimeRange{Since: &since, Until: &until}, inside, true},
		{"at since", TimeRange{Since: &since, Until: &until}, since, true},
		{"at until", TimeRange{Since: &since, Until: &until}, until, true},
		{"before", TimeRange{Since: &since, Until: &until}, before, false},
		{"open start", TimeRange{Until: &until}, before, true},
		{"open end", TimeRange{Since: &since}, until, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.ts); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestAnalyzer_Analyze_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log", "2024-01-15 10:00:00 [INFO] app: x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Analyze(ctx, []string{path})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}

func TestAnalyzer_Analyze_ConcurrencyMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 8; i++ {
		lines := []string{
			"2024-01-15 10:00:00 [INFO] app: a",
			"2024-01-15 11:00:00 [ERROR] db: b",
			"junk",
		}
		files = append(files, writeLog(t, dir, string(rune('a'+i))+".log", lines...))
	}

	seq, err := New(WithWorkers(1)).Analyze(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	par, err := New(WithWorkers(8)).Analyze(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}

	if seq.Statistics.TotalEntries != par.Statistics.TotalEntries ||
		seq.Statistics.ErrorCount != par.Statistics.ErrorCount ||
		len(seq.ParseErrors) != len(par.ParseErrors) {
		t.Error("parallel analysis differs from sequential analysis")
	}
	for i := range seq.Records {
		if seq.Records[i] != par.Records[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, seq.Records[i], par.Records[i])
		}
	}
}

func TestAnalyzer_LogsParsedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log", "2024-01-15 10:00:00 [INFO] app: x")

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	if _, err := New(WithLogger(logger)).Analyze(context.Background(), []string{path}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"message":"parsed file"`) {
		t.Errorf("expected debug log, got %q", buf.String())
	}
}
