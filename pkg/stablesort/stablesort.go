// Package stablesort provides a stable sort on top of an unstable sorting
// primitive by carrying each element's original position as a tie-breaker.
package stablesort

import "sort"

// indexed pairs an element with its original position in the input. The
// position is assigned once, at input enumeration time.
type indexed[T any] struct {
	value T
	pos   int
}

// Sort sorts items in place according to cmp, which must return a negative
// number when a sorts before b, zero when they compare equal, and a positive
// number otherwise. Elements comparing equal keep their relative input
// order, regardless of whether the underlying sort primitive is stable:
// comparing on the (value, original position) pair is a total order, so
// stability falls out without relying on the primitive's guarantees.
//
// Panics raised by cmp propagate to the caller unmodified. Empty and
// single-element slices are returned unchanged.
func Sort[T any](items []T, cmp func(a, b T) int) {
	if len(items) < 2 {
		return
	}

	pairs := make([]indexed[T], len(items))
	for i, v := range items {
		pairs[i] = indexed[T]{value: v, pos: i}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if c := cmp(pairs[i].value, pairs[j].value); c != 0 {
			return c < 0
		}
		return pairs[i].pos < pairs[j].pos
	})

	for i, p := range pairs {
		items[i] = p.value
	}
}

// Sorted returns a stably sorted copy of items, leaving the input unchanged.
func Sorted[T any](items []T, cmp func(a, b T) int) []T {
	out := make([]T, len(items))
	copy(out, items)
	Sort(out, cmp)
	return out
}
