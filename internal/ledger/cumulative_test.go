package ledger

import (
	"testing"

	"github.com/sambright/nestegg/internal/model"
)

func TestRecomputeRunningTotals(t *testing.T) {
	weeks := []model.Week{
		{Number: 1, Aggregate: 100},
		{Number: 2, Aggregate: -30},
		{Number: 3},
		{Number: 4, Aggregate: 50},
	}

	Recompute(weeks)

	want := []float64{100, 70, 70, 120}
	for i, w := range weeks {
		if w.Cumulative != want[i] {
			t.Fatalf("cumulative[%d] = %v, want %v", i, w.Cumulative, want[i])
		}
	}

	// The defining invariant, checked pairwise.
	if weeks[0].Cumulative != weeks[0].Aggregate {
		t.Fatalf("cumulative[0] = %v, want aggregate %v", weeks[0].Cumulative, weeks[0].Aggregate)
	}
	for i := 1; i < len(weeks); i++ {
		if weeks[i].Cumulative != weeks[i-1].Cumulative+weeks[i].Aggregate {
			t.Fatalf("invariant broken at week %d", i+1)
		}
	}
}

func TestRecomputeRepairsNumbering(t *testing.T) {
	weeks := []model.Week{
		{Number: 1, Aggregate: 10},
		{Number: 7, Aggregate: 20}, // gap left by a faulty edit
		{Number: 3, Aggregate: 30},
	}

	Recompute(weeks)

	for i, w := range weeks {
		if w.Number != i+1 {
			t.Fatalf("week at position %d numbered %d, want %d", i, w.Number, i+1)
		}
	}
	if weeks[2].Cumulative != 60 {
		t.Fatalf("cumulative[2] = %v, want 60", weeks[2].Cumulative)
	}
}

func TestRecomputeEmptyTimeline(t *testing.T) {
	Recompute(nil) // must not panic
}
