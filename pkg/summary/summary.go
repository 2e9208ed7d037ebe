// Package summary computes event-weighted summaries over archived samples.
// Summaries count each recorded observation once with no time weighting, and
// bad samples never contribute: a bad archive value is treated as absent.
package summary

import (
	"context"
	"fmt"
	"math"

	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
	"github.com/dmoellenbeck/pidevclub/pkg/timerange"
)

// Summarizer computes summaries against a sample archive.
type Summarizer struct {
	store storage.Storage
}

// New creates a summarizer backed by the given storage.
func New(store storage.Storage) *Summarizer {
	return &Summarizer{store: store}
}

// EventCount returns the number of good samples archived for tag in the
// interval.
func (s *Summarizer) EventCount(ctx context.Context, tag string, iv timerange.Interval) (uint64, error) {
	samples, err := s.goodSamples(ctx, tag, iv)
	if err != nil {
		return 0, err
	}
	return uint64(len(samples)), nil
}

// Summarize computes the requested summary kinds for tag over the interval.
// Minimum, Maximum and Average are NaN when the interval holds no good
// samples; EventCount and Total are zero.
func (s *Summarizer) Summarize(ctx context.Context, tag string, iv timerange.Interval, kinds ...historian.SummaryKind) (map[historian.SummaryKind]float64, error) {
	samples, err := s.goodSamples(ctx, tag, iv)
	if err != nil {
		return nil, err
	}

	out := make(map[historian.SummaryKind]float64, len(kinds))
	for _, kind := range kinds {
		v, err := compute(kind, samples)
		if err != nil {
			return nil, err
		}
		out[kind] = v
	}
	return out, nil
}

// PartitionCount pairs one subinterval with its event count.
type PartitionCount struct {
	Interval timerange.Interval `json:"interval"`
	Count    uint64             `json:"count"`
}

// PartitionedEventCounts splits the interval into at most n subintervals
// and returns the event count of each, in partition order.
func (s *Summarizer) PartitionedEventCounts(ctx context.Context, tag string, iv timerange.Interval, n int) ([]PartitionCount, error) {
	var counts []PartitionCount
	for part := range iv.Partition(n) {
		c, err := s.EventCount(ctx, tag, part)
		if err != nil {
			return nil, err
		}
		counts = append(counts, PartitionCount{Interval: part, Count: c})
	}
	return counts, nil
}

func (s *Summarizer) goodSamples(ctx context.Context, tag string, iv timerange.Interval) ([]historian.Sample, error) {
	samples, err := s.store.Query(ctx, storage.QueryRequest{
		Interval: iv,
		Tags:     []string{tag},
		GoodOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("summary query failed: %w", err)
	}
	return samples, nil
}

func compute(kind historian.SummaryKind, samples []historian.Sample) (float64, error) {
	switch kind {
	case historian.EventCount:
		return float64(len(samples)), nil
	case historian.Total:
		var total float64
		for _, smp := range samples {
			total += smp.Value
		}
		return total, nil
	case historian.Minimum:
		if len(samples) == 0 {
			return math.NaN(), nil
		}
		min := samples[0].Value
		for _, smp := range samples[1:] {
			if smp.Value < min {
				min = smp.Value
			}
		}
		return min, nil
	case historian.Maximum:
		if len(samples) == 0 {
			return math.NaN(), nil
		}
		max := samples[0].Value
		for _, smp := range samples[1:] {
			if smp.Value > max {
				max = smp.Value
			}
		}
		return max, nil
	case historian.Average:
		if len(samples) == 0 {
			return math.NaN(), nil
		}
		var total float64
		for _, smp := range samples {
			total += smp.Value
		}
		return total / float64(len(samples)), nil
	default:
		return 0, fmt.Errorf("unsupported summary kind: %s", kind)
	}
}
