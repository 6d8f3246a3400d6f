package output

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/parser"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		// Quiet mode: statistics only
		return encoder.Encode(newStatisticsDocument(report.Statistics))
	}

	return encoder.Encode(report)
}

// StatisticsDocument is the JSON shape of analyzer.Statistics. Optional
// fields are omitted when there were no entries.
type StatisticsDocument struct {
	TotalEntries        int            `json:"total_entries"`
	ErrorCount          int            `json:"error_count"`
	ErrorRate           float64        `json:"error_rate"`
	EntriesByLevel      map[string]int `json:"entries_by_level"`
	EntriesByComponent  map[string]int `json:"entries_by_component"`
	EntriesByHour       map[string]int `json:"entries_by_hour"`
	MostActiveComponent *string        `json:"most_active_component,omitempty"`
	PeakHour            *int           `json:"peak_hour,omitempty"`
	FirstEntry          *string        `json:"first_entry,omitempty"`
	LastEntry           *string        `json:"last_entry,omitempty"`
}

// MetadataDocument is the JSON shape of Metadata.
type MetadataDocument struct {
	RunID        string      `json:"run_id"`
	Sources      []string    `json:"sources"`
	FileErrors   []FileError `json:"file_errors,omitempty"`
	AnalyzedAt   time.Time   `json:"analyzed_at"`
	DurationMS   int64       `json:"duration_ms"`
	LinesRead    int         `json:"lines_read"`
	SkippedLines int         `json:"skipped_lines"`
	Filtered     int         `json:"filtered"`
}

// Document is the JSON shape of a Report.
type Document struct {
	Statistics StatisticsDocument `json:"statistics"`
	Metadata   MetadataDocument   `json:"metadata"`
}

// MarshalJSON renders the report through Document.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}

// Document converts the report to its JSON shape.
func (r *Report) Document() Document {
	sources := r.Metadata.Sources
	if sources == nil {
		sources = []string{}
	}

	return Document{
		Statistics: newStatisticsDocument(r.Statistics),
		Metadata: MetadataDocument{
			RunID:        r.Metadata.RunID,
			Sources:      sources,
			FileErrors:   r.Metadata.FileErrors,
			AnalyzedAt:   r.Metadata.AnalyzedAt,
			DurationMS:   r.Metadata.Duration.Milliseconds(),
			LinesRead:    r.Metadata.LinesRead,
			SkippedLines: len(r.Skipped),
			Filtered:     r.Metadata.Filtered,
		},
	}
}

func newStatisticsDocument(stats *analyzer.Statistics) StatisticsDocument {
	if stats == nil {
		stats = analyzer.Aggregate(nil)
	}

	doc := StatisticsDocument{
		TotalEntries:        stats.TotalEntries,
		ErrorCount:          stats.ErrorCount,
		ErrorRate:           stats.ErrorRate,
		EntriesByLevel:      make(map[string]int, len(stats.EntriesByLevel)),
		EntriesByComponent:  make(map[string]int, len(stats.EntriesByComponent)),
		EntriesByHour:       make(map[string]int, len(stats.EntriesByHour)),
		MostActiveComponent: stats.MostActiveComponent,
		PeakHour:            stats.PeakHour,
		FirstEntry:          timestampString(stats.FirstEntry),
		LastEntry:           timestampString(stats.LastEntry),
	}

	for level, n := range stats.EntriesByLevel {
		doc.EntriesByLevel[level.String()] = n
	}
	for component, n := range stats.EntriesByComponent {
		doc.EntriesByComponent[component] = n
	}
	for hour, n := range stats.EntriesByHour {
		doc.EntriesByHour[strconv.Itoa(hour)] = n
	}

	return doc
}

func timestampString(ts *parser.Timestamp) *string {
	if ts == nil {
		return nil
	}
	s := ts.String()
	return &s
}
