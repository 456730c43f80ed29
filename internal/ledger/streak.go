package ledger

import (
	"github.com/sambright/nestegg/internal/model"
)

// Streak derives the consecutive-positive-week streaks from a timeline.
// Only weeks with data participate: an empty week neither extends nor breaks
// a run, which keeps "no data yet" distinct from "saved nothing". A zero or
// negative aggregate breaks the run.
func Streak(weeks []model.Week) model.StreakSummary {
	var s model.StreakSummary
	var run int
	for i := range weeks {
		if !weeks[i].HasData {
			continue
		}
		s.TotalWeeks++
		if weeks[i].Aggregate > 0 {
			run++
			if run > s.LongestStreak {
				s.LongestStreak = run
			}
		} else {
			run = 0
		}
	}
	s.CurrentStreak = run
	return s
}
