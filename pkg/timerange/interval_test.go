package timerange

import (
	"testing"
	"time"
)

func TestInterval_Direction(t *testing.T) {
	forward := New(t0, t0.Add(time.Minute))
	backward := New(t0.Add(time.Minute), t0)
	zero := New(t0, t0)

	if forward.Backward() {
		t.Error("forward interval reported as backward")
	}
	if !backward.Backward() {
		t.Error("backward interval not reported as backward")
	}
	if zero.Backward() {
		t.Error("zero-span interval reported as backward")
	}
}

func TestInterval_Span(t *testing.T) {
	forward := New(t0, t0.Add(90*time.Second))
	backward := New(t0.Add(90*time.Second), t0)

	if forward.Span() != 90*time.Second {
		t.Errorf("forward span = %v, want 90s", forward.Span())
	}
	if backward.Span() != 90*time.Second {
		t.Errorf("backward span = %v, want 90s", backward.Span())
	}
}

func TestInterval_Contains(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
		ts   time.Time
		want bool
	}{
		{"inside forward", New(t0, t0.Add(time.Minute)), t0.Add(30 * time.Second), true},
		{"inside backward", New(t0.Add(time.Minute), t0), t0.Add(30 * time.Second), true},
		{"start endpoint", New(t0, t0.Add(time.Minute)), t0, true},
		{"end endpoint", New(t0, t0.Add(time.Minute)), t0.Add(time.Minute), true},
		{"before", New(t0, t0.Add(time.Minute)), t0.Add(-time.Second), false},
		{"after backward", New(t0.Add(time.Minute), t0), t0.Add(2 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.iv.Contains(tt.ts); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestInterval_EarliestLatest(t *testing.T) {
	backward := New(t0.Add(time.Minute), t0)

	if !backward.Earliest().Equal(t0) {
		t.Errorf("Earliest = %v, want %v", backward.Earliest(), t0)
	}
	if !backward.Latest().Equal(t0.Add(time.Minute)) {
		t.Errorf("Latest = %v, want %v", backward.Latest(), t0.Add(time.Minute))
	}
}
