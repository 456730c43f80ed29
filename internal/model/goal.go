package model

import (
	"time"
)

// Goal is a named savings target with a week-bucketed ledger anchored to its
// start date. Weeks are ordered by contiguous week numbers starting at 1.
type Goal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Target      float64    `json:"target"`
	StartDate   time.Time  `json:"start_date"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Weeks       []Week     `json:"weeks"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Total returns the cumulative total of the final week, or 0 for an empty
// timeline. Valid only after the cumulative pass has run.
func (g *Goal) Total() float64 {
	if len(g.Weeks) == 0 {
		return 0
	}
	return g.Weeks[len(g.Weeks)-1].Cumulative
}

// Week returns the week with the given 1-based number, or nil.
func (g *Goal) Week(num int) *Week {
	if num < 1 || num > len(g.Weeks) {
		return nil
	}
	return &g.Weeks[num-1]
}
