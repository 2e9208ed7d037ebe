// Package samplelist provides a sortable collection of historian samples.
// Sorting is keyed by an explicit sort-key descriptor and a direction sign
// multiplier, and is always stable: samples comparing equal under the chosen
// key keep their relative order in the list.
package samplelist

import (
	"fmt"

	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/stablesort"
)

// SortKey identifies the sample field to sort by.
type SortKey string

const (
	ByTag     SortKey = "tag"
	ByTime    SortKey = "time"
	ByValue   SortKey = "value"
	ByQuality SortKey = "quality"
)

// Direction encodes sort order as a sign multiplier applied to the
// comparator result.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// List holds samples and sorts them by key and direction.
type List struct {
	samples []historian.Sample
}

// New creates a list seeded with the given samples. The slice is not copied.
func New(samples ...historian.Sample) *List {
	return &List{samples: samples}
}

// Append adds samples to the end of the list.
func (l *List) Append(samples ...historian.Sample) {
	l.samples = append(l.samples, samples...)
}

// Len returns the number of samples in the list.
func (l *List) Len() int {
	return len(l.samples)
}

// Samples returns the backing slice in its current order.
func (l *List) Samples() []historian.Sample {
	return l.samples
}

// SortBy stably sorts the list by the given key and direction. An unknown
// key is an error and leaves the list untouched.
func (l *List) SortBy(key SortKey, dir Direction) error {
	cmp, err := comparatorFor(key)
	if err != nil {
		return err
	}

	stablesort.Sort(l.samples, func(a, b historian.Sample) int {
		return int(dir) * cmp(a, b)
	})
	return nil
}

// SortedBy returns a stably sorted copy, leaving the list untouched.
func (l *List) SortedBy(key SortKey, dir Direction) ([]historian.Sample, error) {
	cmp, err := comparatorFor(key)
	if err != nil {
		return nil, err
	}

	return stablesort.Sorted(l.samples, func(a, b historian.Sample) int {
		return int(dir) * cmp(a, b)
	}), nil
}

func comparatorFor(key SortKey) (func(a, b historian.Sample) int, error) {
	cmp := lookupComparator(key)
	if cmp == nil {
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
	return cmp, nil
}
