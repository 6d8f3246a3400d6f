// Package analyzer reads log files and computes summary statistics.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/logtally/pkg/parser"
)

// Analyzer parses a set of log files and aggregates the records.
type Analyzer struct {
	workers   int
	timeRange *TimeRange
	minLevel  *parser.Level
	logger    zerolog.Logger
}

// TimeRange limits analysis to records whose timestamp falls within
// [Since, Until]. A nil bound is open.
type TimeRange struct {
	Since *parser.Timestamp
	Until *parser.Timestamp
}

// Contains reports whether ts lies within the range.
func (r *TimeRange) Contains(ts parser.Timestamp) bool {
	if r.Since != nil && ts.Before(*r.Since) {
		return false
	}
	if r.Until != nil && ts.After(*r.Until) {
		return false
	}
	return true
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithWorkers sets how many files are parsed concurrently.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithTimeRange drops records outside [since, until]. Either bound may be nil.
func WithTimeRange(since, until *parser.Timestamp) Option {
	return func(a *Analyzer) {
		if since != nil || until != nil {
			a.timeRange = &TimeRange{Since: since, Until: until}
		}
	}
}

// WithMinLevel drops records less severe than level.
func WithMinLevel(level parser.Level) Option {
	return func(a *Analyzer) {
		a.minLevel = &level
	}
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// New creates an analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		workers: runtime.NumCPU(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileError records a source that could not be read.
type FileError struct {
	Source string
	Err    error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// AnalysisResult contains the complete analysis output.
type AnalysisResult struct {
	// Statistics is computed over Records.
	Statistics *Statistics

	// Records are the parsed records that passed all filters, grouped by
	// source in input order and in line order within each source.
	Records []parser.Record

	// ParseErrors lists every skipped line.
	ParseErrors []*parser.ParseError

	// FileErrors lists sources that could not be read. Records from other
	// sources are unaffected.
	FileErrors []*FileError

	// Metadata provides context about the analysis.
	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// Sources lists the files that were read successfully.
	Sources []string

	// TimeRange is the time filter applied, if any.
	TimeRange *TimeRange

	// MinLevel is the severity filter applied, if any.
	MinLevel *parser.Level

	// StartTime is when analysis began.
	StartTime time.Time

	// EndTime is when analysis completed.
	EndTime time.Time

	// LinesRead is the total number of lines scanned.
	LinesRead int

	// Filtered is the number of parsed records dropped by filters.
	Filtered int
}

// Analyze parses files concurrently, then merges the per-file results in the
// order given and aggregates them. Unreadable files are reported in
// FileErrors; only context cancellation makes Analyze fail.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Metadata: AnalysisMetadata{
			TimeRange: a.timeRange,
			MinLevel:  a.minLevel,
			StartTime: time.Now(),
		},
	}

	fileResults := make([]*parser.FileResult, len(files))
	fileErrs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, path := range files {
		g.Go(func() error {
			fr, err := parser.ParseFile(gctx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				fileErrs[i] = err
				return nil
			}
			a.logger.Debug().
				Str("file", path).
				Int("lines", fr.LinesRead).
				Int("records", len(fr.Records)).
				Int("skipped", len(fr.Errors)).
				Msg("parsed file")
			fileResults[i] = fr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing log files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, fr := range fileResults {
		if fr == nil {
			result.FileErrors = append(result.FileErrors, &FileError{Source: files[i], Err: fileErrs[i]})
			continue
		}

		result.Metadata.Sources = append(result.Metadata.Sources, fr.Source)
		result.Metadata.LinesRead += fr.LinesRead
		result.ParseErrors = append(result.ParseErrors, fr.Errors...)

		for _, rec := range fr.Records {
			if !a.keep(rec) {
				result.Metadata.Filtered++
				continue
			}
			result.Records = append(result.Records, rec)
		}
	}

	result.Statistics = Aggregate(result.Records)
	result.Metadata.EndTime = time.Now()

	return result, nil
}

func (a *Analyzer) keep(rec parser.Record) bool {
	if a.minLevel != nil && !rec.Level.AtLeast(*a.minLevel) {
		return false
	}
	if a.timeRange != nil && !a.timeRange.Contains(rec.Timestamp) {
		return false
	}
	return true
}
