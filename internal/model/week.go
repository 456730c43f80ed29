package model

import (
	"time"
)

// Week is a 7-day bucket in a goal's timeline. StartDate and EndDate are
// inclusive; EndDate is always StartDate + 6 days. Aggregate equals the sum
// of the entries' amounts whenever entries are present; Cumulative is the
// running sum of this and all prior weeks' aggregates.
type Week struct {
	Number     int       `json:"number"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Aggregate  float64   `json:"aggregate"`
	Cumulative float64   `json:"cumulative"`
	HasData    bool      `json:"has_data"`
	Entries    []Entry   `json:"entries,omitempty"`
}

// Contains reports whether t falls inside the week's date range. Both
// boundaries are inclusive; t is compared at day granularity.
func (w *Week) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.StartDate) && !day.After(w.EndDate)
}

// Entry is an individual timestamped monetary transaction within a week.
// Entries have no identity beyond their position in the week's sequence.
type Entry struct {
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// EntryPatch describes a partial update to an entry. Nil fields are left
// unchanged; the original timestamp is preserved unless overridden.
type EntryPatch struct {
	Amount    *float64   `json:"amount,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Note      *string    `json:"note,omitempty"`
}
