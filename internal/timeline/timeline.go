// Package timeline derives and maintains the ordered week-bucket sequence a
// goal's ledger is journaled into. All functions are pure except the two
// mutators that grow a goal's timeline in place.
package timeline

import (
	"time"

	"github.com/sambright/nestegg/internal/model"
)

const daysPerWeek = 7

// WeekStart returns the Monday of the week containing t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}

// Build generates count contiguous weeks numbered 1..count, Monday-anchored
// to the week containing start. Each week spans [start, start+6d] inclusive.
func Build(start time.Time, count int) []model.Week {
	weeks := make([]model.Week, 0, count)
	anchor := WeekStart(start)
	for i := 0; i < count; i++ {
		ws := anchor.AddDate(0, 0, i*daysPerWeek)
		weeks = append(weeks, model.Week{
			Number:    i + 1,
			StartDate: ws,
			EndDate:   ws.AddDate(0, 0, daysPerWeek-1),
		})
	}
	return weeks
}

// Locate returns the index of the week whose date range contains t, or -1.
func Locate(weeks []model.Week, t time.Time) int {
	for i := range weeks {
		if weeks[i].Contains(t) {
			return i
		}
	}
	return -1
}

// NumberFor returns the 1-based week number t would fall into on a timeline
// anchored at first's start date, regardless of how many weeks exist yet.
// Dates before the timeline yield numbers <= 0.
func NumberFor(first model.Week, t time.Time) int {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(day.Sub(first.StartDate).Hours() / 24)
	if days >= 0 {
		return days/daysPerWeek + 1
	}
	// Integer division truncates toward zero; past dates need floor behavior.
	return -((-days - 1) / daysPerWeek)
}

// ExtendTo appends contiguous empty weeks until the timeline is at least
// count weeks long. Existing weeks are untouched.
func ExtendTo(goal *model.Goal, count int) {
	for len(goal.Weeks) < count {
		last := goal.Weeks[len(goal.Weeks)-1]
		ws := last.StartDate.AddDate(0, 0, daysPerWeek)
		goal.Weeks = append(goal.Weeks, model.Week{
			Number:    last.Number + 1,
			StartDate: ws,
			EndDate:   ws.AddDate(0, 0, daysPerWeek-1),
		})
	}
}

// EnsureCoverage extends the timeline so that the week containing now, plus
// lookahead further weeks, always exists. This keeps the current real-world
// week writable without an explicit add-week action. Returns true if the
// timeline grew.
func EnsureCoverage(goal *model.Goal, now time.Time, lookahead int) bool {
	if len(goal.Weeks) == 0 {
		return false
	}
	want := NumberFor(goal.Weeks[0], now) + lookahead
	if want <= len(goal.Weeks) {
		return false
	}
	ExtendTo(goal, want)
	return true
}

// PrependTo splices new weeks in front of the timeline so that t falls
// inside the first week, renumbers every week from 1, and moves the goal's
// start date back to the new first week's start. Returns the number of weeks
// added; 0 if t is not before the current first week.
func PrependTo(goal *model.Goal, t time.Time) int {
	if len(goal.Weeks) == 0 {
		return 0
	}
	first := goal.Weeks[0]
	target := WeekStart(t)
	if !target.Before(first.StartDate) {
		return 0
	}
	added := int(first.StartDate.Sub(target).Hours()/24) / daysPerWeek
	fresh := make([]model.Week, 0, added+len(goal.Weeks))
	for i := 0; i < added; i++ {
		ws := target.AddDate(0, 0, i*daysPerWeek)
		fresh = append(fresh, model.Week{
			StartDate: ws,
			EndDate:   ws.AddDate(0, 0, daysPerWeek-1),
		})
	}
	goal.Weeks = append(fresh, goal.Weeks...)
	Renumber(goal.Weeks)
	goal.StartDate = goal.Weeks[0].StartDate
	return added
}

// Renumber rewrites week numbers from slice position. Stored numbers are
// never trusted after a structural change; position is authoritative, which
// doubles as the repair strategy for a timeline with gapped numbers.
func Renumber(weeks []model.Week) {
	for i := range weeks {
		weeks[i].Number = i + 1
	}
}
