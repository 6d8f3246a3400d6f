// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/parser"
)

// Report is the complete analysis output.
type Report struct {
	// Statistics is the aggregate over all accepted records.
	Statistics *analyzer.Statistics

	// Skipped lists lines that could not be parsed.
	Skipped []*parser.ParseError

	// Metadata provides context about the analysis.
	Metadata Metadata
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// RunID uniquely identifies this analysis run.
	RunID string

	// Sources lists the log files that were read.
	Sources []string

	// FileErrors lists sources that could not be read.
	FileErrors []FileError

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time

	// Duration is how long the analysis took.
	Duration time.Duration

	// LinesRead is the number of lines scanned across all sources.
	LinesRead int

	// Filtered is the number of parsed records excluded by filters.
	Filtered int
}

// FileError is a source that could not be read.
type FileError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.AnalysisResult) *Report {
	report := &Report{
		Statistics: result.Statistics,
		Skipped:    result.ParseErrors,
		Metadata: Metadata{
			RunID:      uuid.NewString(),
			Sources:    result.Metadata.Sources,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
			LinesRead:  result.Metadata.LinesRead,
			Filtered:   result.Metadata.Filtered,
		},
	}

	for _, fe := range result.FileErrors {
		report.Metadata.FileErrors = append(report.Metadata.FileErrors, FileError{
			Source: fe.Source,
			Error:  fe.Err.Error(),
		})
	}

	return report
}

// HasEntries returns true if at least one record was aggregated.
func (r *Report) HasEntries() bool {
	return r.Statistics != nil && r.Statistics.TotalEntries > 0
}

// HasErrors returns true if any ERROR records were counted.
func (r *Report) HasErrors() bool {
	return r.Statistics != nil && r.Statistics.ErrorCount > 0
}
