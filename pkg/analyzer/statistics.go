package analyzer

import (
	"cmp"

	"github.com/ccollicutt/logtally/pkg/parser"
)

// Statistics summarizes a set of records. It is computed once by Aggregate
// and not updated afterwards.
type Statistics struct {
	// TotalEntries is the number of records aggregated.
	TotalEntries int

	// EntriesByLevel counts records per severity. Levels never seen are absent.
	EntriesByLevel map[parser.Level]int

	// EntriesByComponent counts records per exact component text.
	EntriesByComponent map[string]int

	// EntriesByHour counts records per hour of day (0-23). Hours never seen
	// are absent rather than zero.
	EntriesByHour map[int]int

	// ErrorCount is the number of records with level ERROR. FATAL records are
	// not included.
	ErrorCount int

	// ErrorRate is ErrorCount / TotalEntries, or 0 when there are no entries.
	ErrorRate float64

	// MostActiveComponent is the component with the most records. Ties go to
	// the lexicographically smallest name. Nil when there are no entries.
	MostActiveComponent *string

	// PeakHour is the hour with the most records. Ties go to the earliest
	// hour. Nil when there are no entries.
	PeakHour *int

	// FirstEntry and LastEntry are the earliest and latest timestamps seen.
	// Nil when there are no entries.
	FirstEntry *parser.Timestamp
	LastEntry  *parser.Timestamp
}

// Aggregate computes statistics over records in a single pass.
func Aggregate(records []parser.Record) *Statistics {
	stats := &Statistics{
		EntriesByLevel:     make(map[parser.Level]int),
		EntriesByComponent: make(map[string]int),
		EntriesByHour:      make(map[int]int),
	}

	var first, last parser.Timestamp
	for i := range records {
		rec := &records[i]

		stats.EntriesByLevel[rec.Level]++
		stats.EntriesByComponent[rec.Component]++
		stats.EntriesByHour[rec.Timestamp.Hour()]++

		if rec.Level == parser.LevelError {
			stats.ErrorCount++
		}

		if i == 0 {
			first, last = rec.Timestamp, rec.Timestamp
			continue
		}
		if rec.Timestamp.Before(first) {
			first = rec.Timestamp
		}
		if rec.Timestamp.After(last) {
			last = rec.Timestamp
		}
	}

	stats.TotalEntries = len(records)
	if stats.TotalEntries == 0 {
		return stats
	}

	stats.ErrorRate = float64(stats.ErrorCount) / float64(stats.TotalEntries)
	stats.FirstEntry = &first
	stats.LastEntry = &last

	component := maxKey(stats.EntriesByComponent)
	stats.MostActiveComponent = &component

	hour := maxKey(stats.EntriesByHour)
	stats.PeakHour = &hour

	return stats
}

// maxKey returns the key with the highest count. Among tied keys the smallest
// wins, so the result does not depend on map iteration order.
// counts must not be empty.
func maxKey[K cmp.Ordered](counts map[K]int) K {
	var best K
	bestCount := -1
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return best
}
