package timerange

import (
	"slices"
	"testing"
	"time"
)

var t0 = time.Date(2024, 11, 19, 10, 0, 0, 0, time.UTC)

func collect(t *testing.T, iv Interval, n int) []Interval {
	t.Helper()
	return slices.Collect(iv.Partition(n))
}

func TestPartition_SingleSubrange(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
	}{
		{"forward", New(t0, t0.Add(100*time.Second))},
		{"backward", New(t0.Add(100*time.Second), t0)},
		{"zero span", New(t0, t0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := collect(t, tt.iv, 1)
			if len(parts) != 1 {
				t.Fatalf("expected 1 subinterval, got %d", len(parts))
			}
			if parts[0] != tt.iv {
				t.Errorf("expected %v unchanged, got %v", tt.iv, parts[0])
			}
		})
	}
}

func TestPartition_NonPositiveCount(t *testing.T) {
	iv := New(t0, t0.Add(time.Hour))

	for _, n := range []int{0, -1, -100} {
		if parts := collect(t, iv, n); len(parts) != 0 {
			t.Errorf("Partition(%d): expected no subintervals, got %d", n, len(parts))
		}
	}
}

func TestPartition_Forward(t *testing.T) {
	iv := New(t0, t0.Add(100*time.Second))
	parts := collect(t, iv, 4)

	if len(parts) != 4 {
		t.Fatalf("expected 4 subintervals, got %d", len(parts))
	}

	// Coverage: exact original endpoints
	if !parts[0].Start.Equal(iv.Start) {
		t.Errorf("first start = %v, want %v", parts[0].Start, iv.Start)
	}
	if !parts[len(parts)-1].End.Equal(iv.End) {
		t.Errorf("last end = %v, want %v", parts[len(parts)-1].End, iv.End)
	}

	// Contiguity: each start is one tick after the previous end
	for i := 1; i < len(parts); i++ {
		want := parts[i-1].End.Add(Tick)
		if !parts[i].Start.Equal(want) {
			t.Errorf("subinterval %d start = %v, want %v", i, parts[i].Start, want)
		}
	}

	// Step is floor(100/4)+1 = 26 seconds
	if got := parts[0].End.Sub(parts[0].Start); got != 26*time.Second {
		t.Errorf("first subinterval span = %v, want 26s", got)
	}
}

func TestPartition_Backward(t *testing.T) {
	iv := New(t0.Add(100*time.Second), t0)
	parts := collect(t, iv, 4)

	if len(parts) != 4 {
		t.Fatalf("expected 4 subintervals, got %d", len(parts))
	}

	if !parts[0].Start.Equal(iv.Start) {
		t.Errorf("first start = %v, want %v", parts[0].Start, iv.Start)
	}
	if !parts[len(parts)-1].End.Equal(iv.End) {
		t.Errorf("last end = %v, want %v", parts[len(parts)-1].End, iv.End)
	}

	// Contiguity: each start is one tick before the previous end
	for i := 1; i < len(parts); i++ {
		want := parts[i-1].End.Add(-Tick)
		if !parts[i].Start.Equal(want) {
			t.Errorf("subinterval %d start = %v, want %v", i, parts[i].Start, want)
		}
	}

	for i, p := range parts {
		if !p.Backward() && p.Span() > 0 {
			t.Errorf("subinterval %d is not backward: %v", i, p)
		}
	}
}

func TestPartition_DirectionalSymmetry(t *testing.T) {
	forward := collect(t, New(t0, t0.Add(100*time.Second)), 4)
	backward := collect(t, New(t0.Add(100*time.Second), t0), 4)

	if len(forward) != len(backward) {
		t.Fatalf("count mismatch: forward %d, backward %d", len(forward), len(backward))
	}

	// Boundary offsets from the respective origins mirror each other.
	origin := t0
	backOrigin := t0.Add(100 * time.Second)
	for i := range forward {
		fs := forward[i].Start.Sub(origin)
		bs := backOrigin.Sub(backward[i].Start)
		if fs != bs {
			t.Errorf("subinterval %d start offset: forward %v, backward %v", i, fs, bs)
		}
		fe := forward[i].End.Sub(origin)
		be := backOrigin.Sub(backward[i].End)
		if fe != be {
			t.Errorf("subinterval %d end offset: forward %v, backward %v", i, fe, be)
		}
	}
}

func TestPartition_FewerThanRequested(t *testing.T) {
	// Span 3s with 4 requested: step is floor(3/4)+1 = 1s, so the clamp at
	// the original end terminates the loop after 3 subintervals.
	iv := New(t0, t0.Add(3*time.Second))
	parts := collect(t, iv, 4)

	if len(parts) != 3 {
		t.Fatalf("expected 3 subintervals, got %d", len(parts))
	}
	if !parts[len(parts)-1].End.Equal(iv.End) {
		t.Errorf("last end = %v, want %v", parts[len(parts)-1].End, iv.End)
	}
}

func TestPartition_ZeroSpanDegenerate(t *testing.T) {
	iv := New(t0, t0)
	parts := collect(t, iv, 3)

	// The clamp collapses the first subinterval to the zero-length input and
	// the tick advance ends the loop.
	if len(parts) != 1 {
		t.Fatalf("expected 1 subinterval, got %d", len(parts))
	}
	if parts[0] != iv {
		t.Errorf("expected %v, got %v", iv, parts[0])
	}
}

func TestPartition_Restartable(t *testing.T) {
	iv := New(t0, t0.Add(100*time.Second))
	seq := iv.Partition(4)

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if !slices.Equal(first, second) {
		t.Errorf("re-iterating the sequence produced different results:\n%v\n%v", first, second)
	}
}

func TestPartition_EarlyBreak(t *testing.T) {
	iv := New(t0, t0.Add(100*time.Second))

	var got []Interval
	for p := range iv.Partition(4) {
		got = append(got, p)
		if len(got) == 2 {
			break
		}
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 subintervals after break, got %d", len(got))
	}
	if !got[0].Start.Equal(iv.Start) {
		t.Errorf("first start = %v, want %v", got[0].Start, iv.Start)
	}
}

func TestPartitionByEvents_DerivedCount(t *testing.T) {
	iv := New(t0, t0.Add(10*time.Minute))

	// ceil(101/25) = 5
	derived := slices.Collect(iv.PartitionByEvents(101, 25))
	direct := collect(t, iv, 5)

	if !slices.Equal(derived, direct) {
		t.Errorf("PartitionByEvents(101, 25) != Partition(5):\n%v\n%v", derived, direct)
	}
}

func TestPartitionByEvents_ExactDivision(t *testing.T) {
	iv := New(t0, t0.Add(10*time.Minute))

	// 100/25 divides exactly, no rounding up
	derived := slices.Collect(iv.PartitionByEvents(100, 25))
	direct := collect(t, iv, 4)

	if !slices.Equal(derived, direct) {
		t.Errorf("PartitionByEvents(100, 25) != Partition(4):\n%v\n%v", derived, direct)
	}
}

func TestPartitionByEvents_Empty(t *testing.T) {
	iv := New(t0, t0.Add(time.Hour))

	tests := []struct {
		name              string
		events, perEvents int64
	}{
		{"zero events", 0, 25},
		{"zero per partition", 100, 0},
		{"negative per partition", 100, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if parts := slices.Collect(iv.PartitionByEvents(tt.events, tt.perEvents)); len(parts) != 0 {
				t.Errorf("expected no subintervals, got %d", len(parts))
			}
		})
	}
}
