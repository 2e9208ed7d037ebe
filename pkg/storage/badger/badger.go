package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/stablesort"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
)

// Storage implements storage.Storage using BadgerDB (LSM tree)
type Storage struct {
	db *badger.DB
}

// Config holds BadgerDB configuration
type Config struct {
	// Path to store database files
	Path string

	// InMemory mode (for testing)
	InMemory bool

	// MaxMemoryMB limits BadgerDB memory usage in MB (0 = defaults)
	MaxMemoryMB int64
}

// New creates a BadgerDB storage backend
func New(cfg Config) (*Storage, error) {
	opts := badger.DefaultOptions(cfg.Path)

	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	// Keep memory bounded; BadgerDB's defaults assume server-class hosts
	memTableSize := int64(16 * 1024 * 1024)
	if cfg.MaxMemoryMB > 0 {
		memTableSize = cfg.MaxMemoryMB * 1024 * 1024 / 3
	}

	opts = opts.
		WithCompression(options.Snappy).
		WithNumVersionsToKeep(1).
		WithMemTableSize(memTableSize).
		WithNumMemtables(3).
		WithBlockCacheSize(memTableSize / 2).
		WithIndexCacheSize(memTableSize / 4).
		WithMaxLevels(4).
		WithNumCompactors(1).
		WithValueThreshold(1024).
		WithValueLogFileSize(64 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Storage{db: db}, nil
}

// Write archives samples in BadgerDB
func (s *Storage) Write(ctx context.Context, samples []historian.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.db.Update(func(txn *badger.Txn) error {
			for i, smp := range samples {
				// Check context periodically (every 100 samples)
				if i%100 == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}

				value, err := json.Marshal(smp)
				if err != nil {
					return fmt.Errorf("failed to encode sample: %w", err)
				}
				if err := txn.Set(makeKey(smp.Tag, smp.Timestamp), value); err != nil {
					return fmt.Errorf("failed to write sample: %w", err)
				}
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("write operation cancelled: %w", ctx.Err())
	}
}

// Query retrieves samples matching the request, ordered by the interval's
// orientation. Keys sort by tag hash before timestamp, so results are
// re-sorted after the scan.
func (s *Storage) Query(ctx context.Context, req storage.QueryRequest) ([]historian.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type queryResult struct {
		samples []historian.Sample
		err     error
	}
	done := make(chan queryResult, 1)
	startTime := time.Now()

	go func() {
		var res queryResult
		res.err = s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchSize = 100

			it := txn.NewIterator(opts)
			defer it.Close()

			var iterCount int
			for it.Rewind(); it.Valid(); it.Next() {
				iterCount++
				if iterCount%1000 == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}

				err := it.Item().Value(func(val []byte) error {
					var smp historian.Sample
					if err := json.Unmarshal(val, &smp); err != nil {
						return err
					}
					if req.Matches(smp) {
						res.samples = append(res.samples, smp)
					}
					return nil
				})
				if err != nil {
					return err
				}
			}

			if elapsed := time.Since(startTime); elapsed > 5*time.Second {
				log.Printf("Slow query completed in %v (%d iterations, %d samples)", elapsed, iterCount, len(res.samples))
			}
			return nil
		})
		done <- res
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return orderResults(res.samples, req), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("query operation cancelled: %w", ctx.Err())
	}
}

// orderResults sorts samples into the interval's orientation and applies
// the result limit.
func orderResults(samples []historian.Sample, req storage.QueryRequest) []historian.Sample {
	sign := 1
	if req.Interval.Backward() {
		sign = -1
	}
	stablesort.Sort(samples, func(a, b historian.Sample) int {
		return sign * a.Timestamp.Compare(b.Timestamp)
	})

	if req.Limit > 0 && len(samples) > req.Limit {
		samples = samples[:req.Limit]
	}
	return samples
}

// Delete removes samples archived before the given time
func (s *Storage) Delete(ctx context.Context, before time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.db.Update(func(txn *badger.Txn) error {
			iterOpts := badger.DefaultIteratorOptions
			iterOpts.PrefetchValues = false

			it := txn.NewIterator(iterOpts)
			defer it.Close()

			var keysToDelete [][]byte
			var iterCount int

			for it.Rewind(); it.Valid(); it.Next() {
				iterCount++
				if iterCount%1000 == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}

				item := it.Item()
				if _, ts := parseKey(item.Key()); !ts.Before(before) {
					continue
				}
				keysToDelete = append(keysToDelete, item.KeyCopy(nil))
			}

			for _, key := range keysToDelete {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("delete operation cancelled: %w", ctx.Err())
	}
}

// Close shuts down BadgerDB cleanly
func (s *Storage) Close() error {
	return s.db.Close()
}

// RunGC runs BadgerDB's value log garbage collection to reclaim disk space.
// discardRatio: run GC if this fraction of a file can be discarded.
func (s *Storage) RunGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// Stats returns archive statistics
func (s *Storage) Stats(ctx context.Context) (*storage.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type statsResult struct {
		stats *storage.Stats
		err   error
	}
	done := make(chan statsResult, 1)

	go func() {
		var res statsResult
		stats := &storage.Stats{}

		res.err = s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false

			it := txn.NewIterator(opts)
			defer it.Close()

			tagHashes := make(map[uint64]bool)
			var oldest, newest time.Time
			var iterCount int

			for it.Rewind(); it.Valid(); it.Next() {
				iterCount++
				if iterCount%1000 == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}

				stats.TotalSamples++

				hash, ts := parseKey(it.Item().Key())
				tagHashes[hash] = true

				if oldest.IsZero() || ts.Before(oldest) {
					oldest = ts
				}
				if newest.IsZero() || ts.After(newest) {
					newest = ts
				}
			}

			stats.TotalTags = uint64(len(tagHashes))
			stats.OldestSample = oldest
			stats.NewestSample = newest
			return nil
		})

		if res.err == nil {
			lsmSize, vlogSize := s.db.Size()
			stats.SizeBytes = uint64(lsmSize + vlogSize)
		}

		res.stats = stats
		done <- res
	}()

	select {
	case res := <-done:
		return res.stats, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("stats operation cancelled: %w", ctx.Err())
	}
}

// makeKey creates a sortable key: tag hash + timestamp
// Format: [tag_hash (8 bytes)][timestamp (8 bytes)]
func makeKey(tag string, ts time.Time) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[0:8], xxhash.Sum64String(tag))
	binary.BigEndian.PutUint64(key[8:16], uint64(ts.UnixNano()))
	return key
}

// parseKey extracts the tag hash and timestamp from a storage key
func parseKey(key []byte) (uint64, time.Time) {
	hash := binary.BigEndian.Uint64(key[0:8])
	tsNano := binary.BigEndian.Uint64(key[8:16])
	return hash, time.Unix(0, int64(tsNano))
}
