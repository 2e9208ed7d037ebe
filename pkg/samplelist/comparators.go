package samplelist

import (
	"cmp"
	"strings"
	"sync"

	"github.com/dmoellenbeck/pidevclub/pkg/historian"
)

// comparator orders two samples under a single sort key. Each supported key
// gets an explicit, statically-typed comparison; there is no reflection or
// runtime type lookup involved.
type comparator func(a, b historian.Sample) int

var (
	comparatorMu    sync.RWMutex
	comparatorCache = make(map[SortKey]comparator)
)

// lookupComparator returns the comparator for key, building it on first use
// and reusing the cached instance afterwards. Returns nil for unknown keys.
func lookupComparator(key SortKey) comparator {
	comparatorMu.RLock()
	c, ok := comparatorCache[key]
	comparatorMu.RUnlock()
	if ok {
		return c
	}

	c = buildComparator(key)
	if c == nil {
		return nil
	}

	comparatorMu.Lock()
	comparatorCache[key] = c
	comparatorMu.Unlock()
	return c
}

func buildComparator(key SortKey) comparator {
	switch key {
	case ByTag:
		return func(a, b historian.Sample) int {
			return strings.Compare(a.Tag, b.Tag)
		}
	case ByTime:
		return func(a, b historian.Sample) int {
			return a.Timestamp.Compare(b.Timestamp)
		}
	case ByValue:
		return func(a, b historian.Sample) int {
			return cmp.Compare(a.Value, b.Value)
		}
	case ByQuality:
		// Bad samples order before good ones
		return func(a, b historian.Sample) int {
			switch {
			case a.Good == b.Good:
				return 0
			case !a.Good:
				return -1
			default:
				return 1
			}
		}
	}
	return nil
}
