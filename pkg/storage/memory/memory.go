package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/stablesort"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
)

// Storage keeps samples in memory. Data is lost on restart.
// Useful for testing and development.
type Storage struct {
	samples []historian.Sample
	mu      sync.RWMutex
}

// New creates an in-memory storage backend
func New() *Storage {
	return &Storage{
		samples: make([]historian.Sample, 0, 10000),
	}
}

// Write archives samples in memory
func (s *Storage) Write(ctx context.Context, samples []historian.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = append(s.samples, samples...)
	return nil
}

// Query retrieves samples matching the request, ordered by the interval's
// orientation. The stable sort keeps archive order for equal timestamps.
func (s *Storage) Query(ctx context.Context, req storage.QueryRequest) ([]historian.Sample, error) {
	s.mu.RLock()

	var results []historian.Sample
	for _, smp := range s.samples {
		if req.Matches(smp) {
			results = append(results, smp)
		}
	}
	s.mu.RUnlock()

	sign := 1
	if req.Interval.Backward() {
		sign = -1
	}
	stablesort.Sort(results, func(a, b historian.Sample) int {
		return sign * a.Timestamp.Compare(b.Timestamp)
	})

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	return results, nil
}

// Delete removes samples archived before the given time
func (s *Storage) Delete(ctx context.Context, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]historian.Sample, 0, len(s.samples))
	for _, smp := range s.samples {
		if !smp.Timestamp.Before(before) {
			kept = append(kept, smp)
		}
	}

	s.samples = kept
	return nil
}

// Close is a no-op for memory storage
func (s *Storage) Close() error {
	return nil
}

// Stats returns archive statistics
func (s *Storage) Stats(ctx context.Context) (*storage.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &storage.Stats{
		TotalSamples: uint64(len(s.samples)),
	}

	if len(s.samples) == 0 {
		return stats, nil
	}

	tags := make(map[string]bool)
	oldest := s.samples[0].Timestamp
	newest := s.samples[0].Timestamp

	for _, smp := range s.samples {
		tags[smp.Tag] = true

		if smp.Timestamp.Before(oldest) {
			oldest = smp.Timestamp
		}
		if smp.Timestamp.After(newest) {
			newest = smp.Timestamp
		}
	}

	stats.TotalTags = uint64(len(tags))
	stats.OldestSample = oldest
	stats.NewestSample = newest

	// Rough size estimate (each sample ~60 bytes)
	stats.SizeBytes = uint64(len(s.samples)) * 60

	return stats, nil
}
