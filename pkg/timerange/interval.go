// Package timerange provides the time interval type used by historian
// queries and the partitioning logic that splits one large interval into
// smaller contiguous subintervals for batched retrieval.
package timerange

import (
	"fmt"
	"time"
)

// Tick is the smallest representable time increment. Adjacent partition
// boundaries are separated by exactly one Tick so subintervals never overlap.
const Tick = time.Nanosecond

// Interval is an ordered pair of timestamps. Direction is derived, not
// stored: when End is before Start the interval runs backward in time
// (reverse-chronological), which historian clients use to fetch newest
// data first. The zero value is a zero-length interval at the zero time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New returns the interval from start to end. Either orientation is valid.
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Backward reports whether the interval runs in reverse chronological order.
func (iv Interval) Backward() bool {
	return iv.End.Before(iv.Start)
}

// Span returns the absolute duration |End - Start|.
func (iv Interval) Span() time.Duration {
	d := iv.End.Sub(iv.Start)
	if d < 0 {
		return -d
	}
	return d
}

// Earliest returns the chronologically first endpoint.
func (iv Interval) Earliest() time.Time {
	if iv.Backward() {
		return iv.End
	}
	return iv.Start
}

// Latest returns the chronologically last endpoint.
func (iv Interval) Latest() time.Time {
	if iv.Backward() {
		return iv.Start
	}
	return iv.End
}

// Contains reports whether t falls within the interval, endpoints included,
// regardless of orientation.
func (iv Interval) Contains(t time.Time) bool {
	earliest, latest := iv.Earliest(), iv.Latest()
	return !t.Before(earliest) && !t.After(latest)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s]", iv.Start.Format(time.RFC3339Nano), iv.End.Format(time.RFC3339Nano))
}
