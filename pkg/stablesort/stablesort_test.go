package stablesort

import (
	"slices"
	"strings"
	"testing"
)

type keyed struct {
	key  int
	name string
}

func byKey(a, b keyed) int {
	return a.key - b.key
}

func TestSort_Stability(t *testing.T) {
	items := []keyed{{1, "a"}, {1, "b"}, {0, "c"}}

	Sort(items, byKey)

	want := []keyed{{0, "c"}, {1, "a"}, {1, "b"}}
	if !slices.Equal(items, want) {
		t.Errorf("got %v, want %v", items, want)
	}
}

func TestSort_StabilityManyTies(t *testing.T) {
	// All keys equal: output must be the input order exactly.
	items := make([]keyed, 50)
	for i := range items {
		items[i] = keyed{key: 7, name: string(rune('a' + i%26))}
	}
	original := slices.Clone(items)

	Sort(items, byKey)

	if !slices.Equal(items, original) {
		t.Errorf("equal-key input reordered:\ngot  %v\nwant %v", items, original)
	}
}

func TestSort_Permutation(t *testing.T) {
	items := []keyed{{3, "x"}, {1, "y"}, {3, "z"}, {2, "w"}, {1, "v"}}
	original := slices.Clone(items)

	Sort(items, byKey)

	// Same multiset of elements
	count := func(s []keyed) map[keyed]int {
		m := make(map[keyed]int)
		for _, v := range s {
			m[v]++
		}
		return m
	}
	got, want := count(items), count(original)
	if len(got) != len(want) {
		t.Fatalf("element multiset changed: got %v, want %v", got, want)
	}
	for k, n := range want {
		if got[k] != n {
			t.Errorf("element %v: got %d occurrences, want %d", k, got[k], n)
		}
	}

	for i := 1; i < len(items); i++ {
		if items[i-1].key > items[i].key {
			t.Errorf("not sorted at %d: %v", i, items)
		}
	}
}

func TestSort_Idempotence(t *testing.T) {
	items := []keyed{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}}

	Sort(items, byKey)
	first := slices.Clone(items)
	Sort(items, byKey)

	if !slices.Equal(items, first) {
		t.Errorf("second sort changed order:\ngot  %v\nwant %v", items, first)
	}
}

func TestSort_SmallInputs(t *testing.T) {
	var empty []keyed
	Sort(empty, byKey)
	if len(empty) != 0 {
		t.Errorf("empty slice changed: %v", empty)
	}

	single := []keyed{{1, "only"}}
	Sort(single, byKey)
	if single[0].name != "only" {
		t.Errorf("single-element slice changed: %v", single)
	}
}

func TestSort_ComparatorPanicPropagates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected comparator panic to propagate")
		}
	}()

	items := []keyed{{1, "a"}, {2, "b"}}
	Sort(items, func(a, b keyed) int {
		panic("comparator fault")
	})
}

func TestSorted_LeavesInputUnchanged(t *testing.T) {
	items := []string{"pear", "apple", "fig"}
	original := slices.Clone(items)

	out := Sorted(items, strings.Compare)

	if !slices.Equal(items, original) {
		t.Errorf("input mutated: %v", items)
	}
	want := []string{"apple", "fig", "pear"}
	if !slices.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}
