package historian

import "time"

// Sample is a single archived value for a historian tag.
// Good=false marks a bad or absent archive value; consumers that compute
// summaries must skip bad samples rather than treat them as zero.
type Sample struct {
	Tag       string    `json:"tag"`
	Value     float64   `json:"value"`
	Good      bool      `json:"good"`
	Timestamp time.Time `json:"timestamp"`
}

// SummaryKind identifies an event-weighted summary computed over the good
// samples in a time range. Event-weighted means each recorded observation
// counts once, with no time-duration weighting.
type SummaryKind string

const (
	EventCount SummaryKind = "count"
	Total      SummaryKind = "total"
	Minimum    SummaryKind = "min"
	Maximum    SummaryKind = "max"
	Average    SummaryKind = "average"
)

// ParseSummaryKind converts a wire string to a SummaryKind.
func ParseSummaryKind(s string) (SummaryKind, bool) {
	switch SummaryKind(s) {
	case EventCount, Total, Minimum, Maximum, Average:
		return SummaryKind(s), true
	}
	return "", false
}
