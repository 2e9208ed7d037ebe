package timerange

import (
	"iter"
	"time"
)

// Partition splits the interval into at most n contiguous subintervals and
// returns them as a lazy sequence, computed one at a time. The sequence is
// finite and recomputed from scratch on every range-over; it is not
// resumable after partial consumption.
//
// Each subinterval except possibly the last spans close to the same
// duration. Consecutive subintervals are separated by exactly one Tick so
// they never overlap, and the first subinterval starts at iv.Start while
// the last ends at iv.End. Backward intervals are partitioned symmetrically
// in reverse chronological order.
//
// The per-subinterval step is floor(spanSeconds/n)+1 whole seconds. The
// extra second is a safety margin so the final subinterval never has to
// extend past iv.End; the cost is that fewer than n subintervals may be
// produced for small spans. Callers must not assume exactly n results.
//
// n == 1 yields the interval unchanged; n < 1 yields nothing.
func (iv Interval) Partition(n int) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		if n < 1 {
			return
		}
		if n == 1 {
			yield(iv)
			return
		}

		step := time.Duration(int64(iv.Span()/time.Second)/int64(n)+1) * time.Second

		if iv.Backward() {
			for cur := iv.Start; !cur.Before(iv.End); {
				end := cur.Add(-step)
				if end.Before(iv.End) {
					end = iv.End
				}
				if !yield(Interval{Start: cur, End: end}) {
					return
				}
				cur = end.Add(-Tick)
			}
			return
		}

		for cur := iv.Start; !cur.After(iv.End); {
			end := cur.Add(step)
			if end.After(iv.End) {
				end = iv.End
			}
			if !yield(Interval{Start: cur, End: end}) {
				return
			}
			cur = end.Add(Tick)
		}
	}
}

// PartitionByEvents derives a subinterval count from a caller-provided
// estimate of total events in the interval and the desired events per
// subinterval, then delegates to Partition. The count is
// ceil(eventCount/eventsPerPartition); the estimate usually comes from a
// prior event-count summary query and is never checked against actual data.
func (iv Interval) PartitionByEvents(eventCount, eventsPerPartition int64) iter.Seq[Interval] {
	if eventsPerPartition < 1 {
		return iv.Partition(0)
	}
	n := eventCount / eventsPerPartition
	if eventCount%eventsPerPartition != 0 {
		n++
	}
	return iv.Partition(int(n))
}
