// Package query splits large time-bounded archive queries into smaller
// partitioned fetches. A prior event-count summary sizes the partitions, so
// one oversized retrieval becomes several bounded ones whose results
// concatenate back into a single ordered series.
package query

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmoellenbeck/pidevclub/pkg/config"
	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
	"github.com/dmoellenbeck/pidevclub/pkg/summary"
	"github.com/dmoellenbeck/pidevclub/pkg/timerange"
)

// Batcher fetches samples through partitioned subqueries.
type Batcher struct {
	store       storage.Storage
	summarizer  *summary.Summarizer
	parallelism int
}

// NewBatcher creates a batcher over the given storage.
func NewBatcher(store storage.Storage) *Batcher {
	return &Batcher{
		store:       store,
		summarizer:  summary.New(store),
		parallelism: config.PartitionFetchParallelism,
	}
}

// Recorded retrieves every sample for tag within the interval, splitting the
// retrieval so each subquery covers roughly eventsPerPartition events. The
// event count estimate comes from a summary query; partitions are capped at
// config.MaxPartitions. Because partitions are contiguous and each subquery
// returns samples in the interval's orientation, concatenating them in
// partition order yields a globally ordered result.
func (b *Batcher) Recorded(ctx context.Context, tag string, iv timerange.Interval, eventsPerPartition int64) ([]historian.Sample, error) {
	if eventsPerPartition < 1 {
		eventsPerPartition = config.DefaultEventsPerPartition
	}

	count, err := b.summarizer.EventCount(ctx, tag, iv)
	if err != nil {
		return nil, fmt.Errorf("event count estimate failed: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	parts := slices.Collect(iv.PartitionByEvents(int64(count), eventsPerPartition))
	if len(parts) > config.MaxPartitions {
		parts = slices.Collect(iv.Partition(config.MaxPartitions))
	}

	return b.fetchAll(ctx, tag, parts)
}

// fetchAll queries each partition with bounded parallelism and concatenates
// the per-partition results in partition order.
func (b *Batcher) fetchAll(parent context.Context, tag string, parts []timerange.Interval) ([]historian.Sample, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make([][]historian.Sample, len(parts))
	sem := make(chan struct{}, b.parallelism)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, part := range parts {
		wg.Add(1)
		go func(slot int, part timerange.Interval) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			samples, err := b.store.Query(ctx, storage.QueryRequest{
				Interval: part,
				Tags:     []string{tag},
			})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("partition %d query failed: %w", slot, err)
					cancel()
				}
				mu.Unlock()
				return
			}
			results[slot] = samples
		}(i, part)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Goroutines that saw the cancellation exit without recording a result,
	// so a cancelled fetch must fail rather than return a partial series.
	if err := parent.Err(); err != nil {
		return nil, fmt.Errorf("partitioned fetch cancelled: %w", err)
	}

	var merged []historian.Sample
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}
