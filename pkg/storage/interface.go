package storage

import (
	"context"
	"time"

	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/timerange"
)

// Storage defines the interface for sample archive backends.
// Implementations: memory (testing/dev), badger (persistent).
type Storage interface {
	// Write archives samples
	Write(ctx context.Context, samples []historian.Sample) error

	// Query retrieves samples within a time interval. Results come back in
	// the interval's orientation: chronological for forward intervals,
	// reverse chronological for backward ones. Samples sharing a timestamp
	// keep their archive (insertion) order.
	Query(ctx context.Context, req QueryRequest) ([]historian.Sample, error)

	// Delete removes samples archived before the given time
	Delete(ctx context.Context, before time.Time) error

	// Close cleanly shuts down the storage
	Close() error

	// Stats returns archive statistics
	Stats(ctx context.Context) (*Stats, error)
}

// QueryRequest specifies which samples to retrieve.
type QueryRequest struct {
	// Time interval, forward or backward
	Interval timerange.Interval

	// Filter by tag name (optional; empty matches all tags)
	Tags []string

	// Drop bad samples when set
	GoodOnly bool

	// Limit number of results after ordering (0 = no limit)
	Limit int
}

// MatchesTag reports whether the request's tag filter admits the given tag.
func (r QueryRequest) MatchesTag(tag string) bool {
	if len(r.Tags) == 0 {
		return true
	}
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Matches reports whether a sample passes every filter in the request.
func (r QueryRequest) Matches(s historian.Sample) bool {
	if !r.Interval.Contains(s.Timestamp) {
		return false
	}
	if r.GoodOnly && !s.Good {
		return false
	}
	return r.MatchesTag(s.Tag)
}

// Stats provides archive health and usage info.
type Stats struct {
	// Total samples archived
	TotalSamples uint64

	// Distinct tags seen
	TotalTags uint64

	// Storage size in bytes
	SizeBytes uint64

	// Oldest sample timestamp
	OldestSample time.Time

	// Newest sample timestamp
	NewestSample time.Time
}
