package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sambright/nestegg/internal/model"
	"github.com/sambright/nestegg/internal/repository"
	"github.com/sambright/nestegg/internal/validation"
)

// Monday 2026-01-05, the first week of every test goal.
var goalStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

// A timestamp inside week 1.
var inWeekOne = time.Date(2026, 1, 7, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*GoalService, *repository.MemoryKV) {
	t.Helper()

	kv := repository.NewMemoryKV()
	milestones := NewMilestoneService(repository.NewMilestoneRepository(kv))
	milestones.now = func() time.Time { return fixedNow }
	achievements := NewAchievementService(repository.NewAchievementRepository(kv))

	s := NewGoalService(repository.NewGoalRepository(kv), milestones, achievements, 52, 4)
	s.now = func() time.Time { return inWeekOne }
	return s, kv
}

func mustCreate(t *testing.T, s *GoalService) *model.Goal {
	t.Helper()
	goal, err := s.Create("House deposit", 100000, goalStart, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return goal
}

func TestCreateSeedsTimelineAndMilestones(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	if len(goal.Weeks) != 52 {
		t.Fatalf("len(weeks) = %d, want 52", len(goal.Weeks))
	}
	if !goal.StartDate.Equal(goalStart) {
		t.Fatalf("start = %v, want %v", goal.StartDate, goalStart)
	}

	milestones, err := s.milestones.ByGoal(goal.ID)
	if err != nil {
		t.Fatalf("ByGoal: %v", err)
	}
	if len(milestones) != 6 {
		t.Fatalf("len(milestones) = %d, want 6", len(milestones))
	}

	// The first goal becomes active.
	active, err := s.ActiveGoal()
	if err != nil {
		t.Fatalf("ActiveGoal: %v", err)
	}
	if active.ID != goal.ID {
		t.Fatalf("active = %s, want %s", active.ID, goal.ID)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	s, _ := newTestService(t)

	cases := []struct {
		name   string
		goal   string
		target float64
	}{
		{"empty name", "", 1000},
		{"zero target", "x", 0},
		{"negative target", "x", -5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(tc.goal, tc.target, goalStart, "")
			if !errors.Is(err, validation.ErrValidation) {
				t.Fatalf("Create = %v, want validation error", err)
			}
		})
	}
}

func TestAddEntryCrossesMilestones(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	result, err := s.AddEntry(goal.ID, 1, model.Entry{Amount: 30000})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	week := result.Goal.Week(1)
	if week.Aggregate != 30000 {
		t.Fatalf("week 1 aggregate = %v, want 30000", week.Aggregate)
	}
	if week.Cumulative != 30000 {
		t.Fatalf("week 1 cumulative = %v, want 30000", week.Cumulative)
	}

	// 10% (10,000) and 25% (25,000) both crossed in one write; the headline
	// is the furthest threshold reached.
	if len(result.Achieved) != 2 {
		t.Fatalf("achieved = %+v, want two milestones", result.Achieved)
	}
	headline := result.Headline()
	if headline == nil || headline.Amount != 25000 {
		t.Fatalf("headline = %+v, want the 25000 milestone", headline)
	}

	// First entry badge.
	found := false
	for _, b := range result.Badges {
		if b.Code == model.AchievementFirstEntry {
			found = true
		}
	}
	if !found {
		t.Fatalf("badges = %+v, want first_entry", result.Badges)
	}
}

func TestDeleteEntryRevertsMilestone(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	_, err := s.AddEntry(goal.ID, 1, model.Entry{Amount: 30000})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	result, err := s.DeleteEntry(goal.ID, 1, 0)
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}

	week := result.Goal.Week(1)
	if week.Aggregate != 0 || week.HasData {
		t.Fatalf("week 1 = %+v, want empty", week)
	}

	milestones, err := s.milestones.ByGoal(goal.ID)
	if err != nil {
		t.Fatalf("ByGoal: %v", err)
	}
	for _, m := range milestones {
		if m.Achieved {
			t.Fatalf("milestone %v still achieved after total dropped to 0", m.Amount)
		}
		if m.AchievedAt != nil {
			t.Fatalf("milestone %v kept achieved date", m.Amount)
		}
	}
}

func TestUpdateEntryPreservesTimestamp(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	_, err := s.AddEntry(goal.ID, 1, model.Entry{Amount: 100})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	amount := 175.0
	result, err := s.UpdateEntry(goal.ID, 1, 0, model.EntryPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}

	entry := result.Goal.Week(1).Entries[0]
	if entry.Amount != 175 {
		t.Fatalf("amount = %v, want 175", entry.Amount)
	}
	if !entry.Timestamp.Equal(inWeekOne) {
		t.Fatalf("timestamp = %v, want original %v", entry.Timestamp, inWeekOne)
	}
}

func TestEntryErrorsAreNotFound(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	_, err := s.UpdateEntry(goal.ID, 1, 3, model.EntryPatch{})
	if err == nil {
		t.Fatal("expected error for missing entry")
	}

	_, err = s.AddEntry("no-such-goal", 1, model.Entry{Amount: 5})
	if !errors.Is(err, repository.ErrGoalNotFound) {
		t.Fatalf("AddEntry on missing goal = %v, want ErrGoalNotFound", err)
	}

	_, err = s.UpdateEntry(goal.ID, 500, 0, model.EntryPatch{})
	if !errors.Is(err, ErrWeekNotFound) {
		t.Fatalf("UpdateEntry on missing week = %v, want ErrWeekNotFound", err)
	}
}

func TestBackfillBeforeTimelinePrepends(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	// Seed week 1 so we can watch it move.
	_, err := s.RecordWeek(goal.ID, 1, 1000)
	if err != nil {
		t.Fatalf("RecordWeek: %v", err)
	}

	// A loss three weeks before the goal started.
	backfillDate := goalStart.AddDate(0, 0, -3*7+2)
	result, err := s.Backfill(goal.ID, backfillDate, -500, nil)
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}

	if result.WeekNumber != 1 {
		t.Fatalf("resolved week = %d, want 1", result.WeekNumber)
	}

	got := result.Goal
	if len(got.Weeks) != 55 {
		t.Fatalf("len(weeks) = %d, want 55", len(got.Weeks))
	}

	wantStart := goalStart.AddDate(0, 0, -3*7)
	if !got.StartDate.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", got.StartDate, wantStart)
	}

	for i, w := range got.Weeks {
		if w.Number != i+1 {
			t.Fatalf("week at %d numbered %d", i, w.Number)
		}
	}

	// The backfilled loss is data.
	if !got.Weeks[0].HasData || got.Weeks[0].Aggregate != -500 {
		t.Fatalf("backfilled week = %+v, want aggregate -500 with data", got.Weeks[0])
	}

	// The old week 1 is now week 4 with its aggregate intact, and the
	// cumulative chain runs through the loss.
	if got.Weeks[3].Aggregate != 1000 {
		t.Fatalf("old week 1 aggregate = %v at week 4, want 1000", got.Weeks[3].Aggregate)
	}
	if got.Weeks[3].Cumulative != 500 {
		t.Fatalf("week 4 cumulative = %v, want 500", got.Weeks[3].Cumulative)
	}
}

func TestBackfillAfterTimelineExtends(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	_, err := s.RecordWeek(goal.ID, 2, 750)
	if err != nil {
		t.Fatalf("RecordWeek: %v", err)
	}

	// A date in what would be week 60.
	future := goalStart.AddDate(0, 0, 59*7+1)
	result, err := s.Backfill(goal.ID, future, 300, nil)
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}

	if result.WeekNumber != 60 {
		t.Fatalf("resolved week = %d, want 60", result.WeekNumber)
	}
	if len(result.Goal.Weeks) != 60 {
		t.Fatalf("len(weeks) = %d, want 60", len(result.Goal.Weeks))
	}

	// Existing weeks untouched.
	if result.Goal.Weeks[1].Aggregate != 750 || result.Goal.Weeks[1].Number != 2 {
		t.Fatalf("week 2 = %+v, want aggregate 750 untouched", result.Goal.Weeks[1])
	}
	if !result.Goal.StartDate.Equal(goalStart) {
		t.Fatalf("start moved to %v on forward extension", result.Goal.StartDate)
	}
	if result.Goal.Total() != 1050 {
		t.Fatalf("total = %v, want 1050", result.Goal.Total())
	}
}

func TestBackfillWithEntries(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	entries := []model.Entry{
		{Amount: 200, Note: "paycheck"},
		{Amount: -40, Note: "slip"},
	}
	result, err := s.Backfill(goal.ID, goalStart.AddDate(0, 0, 8), 0, entries)
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}

	if result.WeekNumber != 2 {
		t.Fatalf("resolved week = %d, want 2", result.WeekNumber)
	}
	week := result.Goal.Week(2)
	if len(week.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(week.Entries))
	}
	if week.Aggregate != 160 {
		t.Fatalf("aggregate = %v, want 160", week.Aggregate)
	}
}

func TestRecordWeekQuickEdit(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	result, err := s.RecordWeek(goal.ID, 3, 2500)
	if err != nil {
		t.Fatalf("RecordWeek: %v", err)
	}

	week := result.Goal.Week(3)
	if week.Aggregate != 2500 || !week.HasData {
		t.Fatalf("week 3 = %+v, want aggregate 2500", week)
	}

	// Beyond the current end: the timeline grows to fit.
	result, err = s.RecordWeek(goal.ID, 55, 100)
	if err != nil {
		t.Fatalf("RecordWeek beyond end: %v", err)
	}
	if len(result.Goal.Weeks) != 55 {
		t.Fatalf("len(weeks) = %d, want 55", len(result.Goal.Weeks))
	}

	_, err = s.RecordWeek(goal.ID, 0, 10)
	if !errors.Is(err, ErrWeekNotFound) {
		t.Fatalf("RecordWeek(0) = %v, want ErrWeekNotFound", err)
	}
}

func TestDeleteLastGoalRejected(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	err := s.Delete(goal.ID)
	if !errors.Is(err, ErrLastGoal) {
		t.Fatalf("Delete = %v, want ErrLastGoal", err)
	}

	goals, err := s.Goals()
	if err != nil {
		t.Fatalf("Goals: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != goal.ID {
		t.Fatalf("goal collection altered by rejected delete: %+v", goals)
	}
}

func TestDeleteRepointsActiveGoal(t *testing.T) {
	s, _ := newTestService(t)
	first := mustCreate(t, s)

	second, err := s.Create("Vacation", 5000, goalStart, "")
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	err = s.SetActive(second.ID)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	err = s.Delete(second.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	active, err := s.ActiveGoal()
	if err != nil {
		t.Fatalf("ActiveGoal: %v", err)
	}
	if active.ID != first.ID {
		t.Fatalf("active = %s, want repointed to %s", active.ID, first.ID)
	}

	milestones, err := s.milestones.ByGoal(second.ID)
	if err != nil {
		t.Fatalf("ByGoal: %v", err)
	}
	if len(milestones) != 0 {
		t.Fatalf("deleted goal kept %d milestones", len(milestones))
	}
}

func TestUpdateTargetRebasesMilestones(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	_, err := s.AddEntry(goal.ID, 1, model.Entry{Amount: 30000})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	newTarget := 50000.0
	_, err = s.Update(goal.ID, GoalPatch{Target: &newTarget})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	milestones, err := s.milestones.ByGoal(goal.ID)
	if err != nil {
		t.Fatalf("ByGoal: %v", err)
	}
	for _, m := range milestones {
		want := 30000 >= m.Amount
		if m.Achieved != want {
			t.Fatalf("milestone %v achieved = %v after rebase, want %v", m.Amount, m.Achieved, want)
		}
	}
	if milestones[len(milestones)-1].Amount != 50000 {
		t.Fatalf("top milestone = %v, want 50000", milestones[len(milestones)-1].Amount)
	}
}

func TestFailedStoreWriteLeavesNoPartialState(t *testing.T) {
	s, kv := newTestService(t)
	goal := mustCreate(t, s)

	_, err := s.AddEntry(goal.ID, 1, model.Entry{Amount: 500})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	kv.FailWrites = true
	_, err = s.AddEntry(goal.ID, 1, model.Entry{Amount: 9999})
	if err == nil {
		t.Fatal("expected storage error")
	}
	kv.FailWrites = false

	reloaded, err := s.ByID(goal.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if reloaded.Total() != 500 {
		t.Fatalf("total = %v after failed write, want 500", reloaded.Total())
	}
	if len(reloaded.Week(1).Entries) != 1 {
		t.Fatalf("entries = %d after failed write, want 1", len(reloaded.Week(1).Entries))
	}
}

func TestProgress(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	_, err := s.AddEntry(goal.ID, 1, model.Entry{Amount: 30000})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	progress, err := s.Progress(goal.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.TotalSaved != 30000 {
		t.Fatalf("total = %v, want 30000", progress.TotalSaved)
	}
	if progress.Remaining != 70000 {
		t.Fatalf("remaining = %v, want 70000", progress.Remaining)
	}
	if progress.PercentComplete != 30 {
		t.Fatalf("percent = %v, want 30", progress.PercentComplete)
	}
	if progress.TotalSavedPretty != "30,000.00" {
		t.Fatalf("pretty total = %q, want 30,000.00", progress.TotalSavedPretty)
	}
}

func TestStreakEndpointExcludesEmptyWeeks(t *testing.T) {
	s, _ := newTestService(t)
	goal := mustCreate(t, s)

	for week, amount := range map[int]float64{1: 100, 2: 200, 5: 300} {
		_, err := s.RecordWeek(goal.ID, week, amount)
		if err != nil {
			t.Fatalf("RecordWeek(%d): %v", week, err)
		}
	}

	streak, err := s.Streak(goal.ID)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	// Weeks 3 and 4 are empty: they neither break nor extend the run.
	if streak.CurrentStreak != 3 || streak.LongestStreak != 3 || streak.TotalWeeks != 3 {
		t.Fatalf("streak = %+v, want 3/3/3", streak)
	}
}
