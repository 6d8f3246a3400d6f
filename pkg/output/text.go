package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/parser"
)

// NoEntriesMessage is printed when no record survived parsing and filtering.
const NoEntriesMessage = "No valid log entries found."

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	if !report.HasEntries() {
		_, err := fmt.Fprintln(w, NoEntriesMessage)
		return err
	}
	stats := report.Statistics
	_, err := fmt.Fprintf(w, "logtally: %d entries, %d errors (%.2f%%), %d skipped lines\n",
		stats.TotalEntries,
		stats.ErrorCount,
		stats.ErrorRate*100,
		len(report.Skipped))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	if !report.HasEntries() {
		fmt.Fprintln(w, NoEntriesMessage)
		if f.opts.Verbose {
			f.formatMetadata(report, w)
		}
		return nil
	}

	stats := report.Statistics

	fmt.Fprintln(w, "===== Log Statistics =====")
	fmt.Fprintf(w, "Total entries: %d\n", stats.TotalEntries)
	fmt.Fprintf(w, "Error count: %d\n", stats.ErrorCount)
	fmt.Fprintf(w, "Error rate: %.2f%%\n", stats.ErrorRate*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Entries by level:")
	for _, level := range parser.Levels() {
		if n, ok := stats.EntriesByLevel[level]; ok {
			fmt.Fprintf(w, "  %s: %d\n", level, n)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Entries by component:")
	for _, component := range sortedComponents(stats) {
		fmt.Fprintf(w, "  %s: %d\n", displayComponent(component), stats.EntriesByComponent[component])
	}

	if f.opts.Verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Entries by hour:")
		for _, hour := range sortedHours(stats) {
			fmt.Fprintf(w, "  %02d:00: %d\n", hour, stats.EntriesByHour[hour])
		}
	}

	fmt.Fprintln(w)
	if stats.MostActiveComponent != nil {
		fmt.Fprintf(w, "Most active component: %s\n", displayComponent(*stats.MostActiveComponent))
	}
	if stats.PeakHour != nil {
		fmt.Fprintf(w, "Peak hour: %d:00\n", *stats.PeakHour)
	}
	if stats.FirstEntry != nil {
		fmt.Fprintf(w, "First log entry: %s\n", stats.FirstEntry)
	}
	if stats.LastEntry != nil {
		fmt.Fprintf(w, "Last log entry: %s\n", stats.LastEntry)
	}

	if f.opts.Verbose {
		f.formatMetadata(report, w)
	}

	return nil
}

func (f *TextFormatter) formatMetadata(report *Report, w io.Writer) {
	md := report.Metadata
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Run: %s\n", md.RunID)
	fmt.Fprintf(w, "Sources: %d\n", len(md.Sources))
	for _, s := range md.Sources {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	for _, fe := range md.FileErrors {
		fmt.Fprintf(w, "  ! %s: %s\n", fe.Source, fe.Error)
	}
	fmt.Fprintf(w, "Lines read: %d\n", md.LinesRead)
	fmt.Fprintf(w, "Skipped lines: %d\n", len(report.Skipped))
	if md.Filtered > 0 {
		fmt.Fprintf(w, "Filtered entries: %d\n", md.Filtered)
	}
	fmt.Fprintf(w, "Duration: %s\n", md.Duration.Round(time.Millisecond))
}

func sortedComponents(stats *analyzer.Statistics) []string {
	names := make([]string, 0, len(stats.EntriesByComponent))
	for name := range stats.EntriesByComponent {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedHours(stats *analyzer.Statistics) []int {
	hours := make([]int, 0, len(stats.EntriesByHour))
	for h := range stats.EntriesByHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

func displayComponent(name string) string {
	if name == "" {
		return "(none)"
	}
	return name
}
