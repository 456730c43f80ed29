package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sambright/nestegg/internal/ledger"
	"github.com/sambright/nestegg/internal/model"
	"github.com/sambright/nestegg/internal/repository"
	"github.com/sambright/nestegg/internal/timeline"
	"github.com/sambright/nestegg/internal/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrWeekNotFound = errors.New("week not found")
	ErrLastGoal     = errors.New("cannot delete the last remaining goal")
)

// GoalService is the ledger facade: the only component the transport layer
// talks to. Every write follows the same pipeline: resolve the goal, locate
// or grow the target week, mutate it, recompute cumulative totals, re-check
// milestones, persist, and report what was newly achieved. The goal-document
// save is the commit point; failures before it leave persisted state
// untouched.
type GoalService struct {
	repo         repository.GoalRepository
	milestones   *MilestoneService
	achievements *AchievementService

	seedWeeks int
	lookahead int
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGoalService(
	repo repository.GoalRepository,
	milestones *MilestoneService,
	achievements *AchievementService,
	seedWeeks, lookaheadWeeks int,
) *GoalService {
	return &GoalService{
		repo:         repo,
		milestones:   milestones,
		achievements: achievements,
		seedWeeks:    seedWeeks,
		lookahead:    lookaheadWeeks,
		now:          time.Now,
		locks:        map[string]*sync.Mutex{},
	}
}

// GoalPatch is a partial goal update. Nil fields are left unchanged.
type GoalPatch struct {
	Name        *string
	Description *string
	Target      *float64
	Deadline    *time.Time
}

// WriteResult reports the outcome of a ledger write: the goal after the
// write, the resolved week number, and every milestone that flipped to
// achieved, sorted ascending by amount.
type WriteResult struct {
	Goal       *model.Goal
	WeekNumber int
	Achieved   []model.Milestone
	Badges     []model.Achievement
}

// Headline returns the furthest milestone this write reached, or nil. When
// one update crosses several thresholds at once, the highest is the one
// worth announcing; the rest are still in Achieved.
func (r *WriteResult) Headline() *model.Milestone {
	if len(r.Achieved) == 0 {
		return nil
	}
	return &r.Achieved[len(r.Achieved)-1]
}

// lock returns the per-goal mutex, creating it on first use. Serializing
// writes per goal keeps two rapid user actions from interleaving their
// read-modify-write cycles against a half-written goal.
func (s *GoalService) lock(goalID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[goalID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[goalID] = l
	}
	return l
}

// Create makes a goal with a pre-generated empty timeline and the default
// milestone set. The first goal created becomes the active goal.
func (s *GoalService) Create(name string, target float64, startDate time.Time, description string) (*model.Goal, error) {
	if err := validation.GoalName(name); err != nil {
		return nil, err
	}
	if err := validation.GoalTarget(target); err != nil {
		return nil, err
	}
	if err := validation.Date(startDate); err != nil {
		return nil, err
	}

	goals, err := s.repo.Goals()
	if err != nil {
		return nil, err
	}

	now := s.now()
	goal := model.Goal{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Target:      target,
		StartDate:   timeline.WeekStart(startDate),
		Weeks:       timeline.Build(startDate, s.seedWeeks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	goals = append(goals, goal)
	err = s.repo.SaveGoals(goals)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	_, err = s.milestones.CreateDefaults(goal.ID, target)
	if err != nil {
		// Roll back the goal so the two documents stay consistent.
		rollbackErr := s.repo.SaveGoals(goals[:len(goals)-1])
		if rollbackErr != nil {
			slog.Error("failed to roll back goal after milestone seed failure",
				"error", rollbackErr, "goal", goal.ID)
		}
		return nil, fmt.Errorf("failed to seed milestones: %w", err)
	}

	if len(goals) == 1 {
		err = s.repo.SetActiveGoalID(goal.ID)
		if err != nil {
			slog.Error("failed to set active goal", "error", err, "goal", goal.ID)
		}
	}

	return &goal, nil
}

// Goals lists all goals.
func (s *GoalService) Goals() ([]model.Goal, error) {
	return s.repo.Goals()
}

// ByID returns one goal.
func (s *GoalService) ByID(goalID string) (*model.Goal, error) {
	return s.repo.ByID(goalID)
}

// ActiveGoal returns the currently selected goal, falling back to the first
// goal if the pointer is unset or dangling.
func (s *GoalService) ActiveGoal() (*model.Goal, error) {
	id, err := s.repo.ActiveGoalID()
	if err != nil {
		return nil, err
	}
	if id != "" {
		goal, err := s.repo.ByID(id)
		if err == nil {
			return goal, nil
		}
		if !errors.Is(err, repository.ErrGoalNotFound) {
			return nil, err
		}
	}

	goals, err := s.repo.Goals()
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, repository.ErrGoalNotFound
	}
	return &goals[0], nil
}

// SetActive points the active-goal pointer at an existing goal.
func (s *GoalService) SetActive(goalID string) error {
	_, err := s.repo.ByID(goalID)
	if err != nil {
		return err
	}
	return s.repo.SetActiveGoalID(goalID)
}

// Update applies a partial update. A target change rebases the milestone set
// and re-checks it against the current total.
func (s *GoalService) Update(goalID string, patch GoalPatch) (*model.Goal, error) {
	l := s.lock(goalID)
	l.Lock()
	defer l.Unlock()

	goals, idx, err := s.load(goalID)
	if err != nil {
		return nil, err
	}
	goal := &goals[idx]

	if patch.Name != nil {
		if err := validation.GoalName(*patch.Name); err != nil {
			return nil, err
		}
		goal.Name = *patch.Name
	}
	if patch.Description != nil {
		goal.Description = *patch.Description
	}
	if patch.Deadline != nil {
		goal.Deadline = patch.Deadline
	}

	targetChanged := false
	if patch.Target != nil && *patch.Target != goal.Target {
		if err := validation.GoalTarget(*patch.Target); err != nil {
			return nil, err
		}
		goal.Target = *patch.Target
		targetChanged = true
	}

	goal.UpdatedAt = s.now()
	err = s.repo.SaveGoals(goals)
	if err != nil {
		return nil, err
	}

	if targetChanged {
		err = s.milestones.Rebase(goalID, goal.Target)
		if err != nil {
			return nil, err
		}
		_, err = s.milestones.Check(goalID, goal.Total())
		if err != nil {
			return nil, err
		}
	}

	return goal, nil
}

// Delete removes a goal with its weeks, entries, milestones, and badges.
// Deleting the last remaining goal is rejected.
func (s *GoalService) Delete(goalID string) error {
	l := s.lock(goalID)
	l.Lock()
	defer l.Unlock()

	goals, idx, err := s.load(goalID)
	if err != nil {
		return err
	}
	if len(goals) == 1 {
		return ErrLastGoal
	}

	goals = append(goals[:idx], goals[idx+1:]...)
	err = s.repo.SaveGoals(goals)
	if err != nil {
		return err
	}

	err = s.milestones.Delete(goalID)
	if err != nil {
		slog.Error("failed to delete milestones for goal", "error", err, "goal", goalID)
	}
	err = s.achievements.DeleteForGoal(goalID)
	if err != nil {
		slog.Error("failed to delete achievements for goal", "error", err, "goal", goalID)
	}

	active, err := s.repo.ActiveGoalID()
	if err == nil && active == goalID {
		err = s.repo.SetActiveGoalID(goals[0].ID)
		if err != nil {
			slog.Error("failed to repoint active goal", "error", err, "goal", goals[0].ID)
		}
	}

	return nil
}

// RecordWeek sets a week's aggregate directly (the quick-edit path). The
// timeline grows if weekNumber runs past its end.
func (s *GoalService) RecordWeek(goalID string, weekNumber int, amount float64) (*WriteResult, error) {
	if err := validation.Amount(amount); err != nil {
		return nil, err
	}

	return s.write(goalID, func(goal *model.Goal) (int, error) {
		if weekNumber < 1 {
			return 0, ErrWeekNotFound
		}
		timeline.ExtendTo(goal, weekNumber)
		ledger.SetAggregate(goal.Week(weekNumber), amount)
		return weekNumber, nil
	})
}

// AddEntry journals an entry into a week. A zero timestamp defaults to now.
func (s *GoalService) AddEntry(goalID string, weekNumber int, entry model.Entry) (*WriteResult, error) {
	if err := validation.Amount(entry.Amount); err != nil {
		return nil, err
	}

	return s.write(goalID, func(goal *model.Goal) (int, error) {
		if weekNumber < 1 {
			return 0, ErrWeekNotFound
		}
		timeline.ExtendTo(goal, weekNumber)
		if entry.Timestamp.IsZero() {
			entry.Timestamp = s.now()
		}
		ledger.AddEntry(goal.Week(weekNumber), entry)
		return weekNumber, nil
	})
}

// UpdateEntry patches the entry at entryIndex within a week.
func (s *GoalService) UpdateEntry(goalID string, weekNumber, entryIndex int, patch model.EntryPatch) (*WriteResult, error) {
	if patch.Amount != nil {
		if err := validation.Amount(*patch.Amount); err != nil {
			return nil, err
		}
	}

	return s.write(goalID, func(goal *model.Goal) (int, error) {
		week := goal.Week(weekNumber)
		if week == nil {
			return 0, ErrWeekNotFound
		}
		err := ledger.UpdateEntry(week, entryIndex, patch)
		if err != nil {
			return 0, err
		}
		return weekNumber, nil
	})
}

// DeleteEntry removes the entry at entryIndex within a week.
func (s *GoalService) DeleteEntry(goalID string, weekNumber, entryIndex int) (*WriteResult, error) {
	return s.write(goalID, func(goal *model.Goal) (int, error) {
		week := goal.Week(weekNumber)
		if week == nil {
			return 0, ErrWeekNotFound
		}
		err := ledger.RemoveEntry(week, entryIndex)
		if err != nil {
			return 0, err
		}
		return weekNumber, nil
	})
}

// Backfill records data for whatever week contains date, growing the
// timeline backward (with renumbering and a start-date shift) or forward as
// needed. With entries present they are journaled individually; otherwise
// the week's aggregate is set directly. The resolved week number is in the
// result.
func (s *GoalService) Backfill(goalID string, date time.Time, amount float64, entries []model.Entry) (*WriteResult, error) {
	if err := validation.Amount(amount); err != nil {
		return nil, err
	}
	if err := validation.Date(date); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := validation.Amount(e.Amount); err != nil {
			return nil, err
		}
	}

	return s.write(goalID, func(goal *model.Goal) (int, error) {
		idx := timeline.Locate(goal.Weeks, date)
		if idx < 0 {
			if added := timeline.PrependTo(goal, date); added > 0 {
				slog.Info("timeline prepended for backfill",
					"goal", goal.ID, "weeks_added", added, "new_start", goal.StartDate)
			} else {
				timeline.ExtendTo(goal, timeline.NumberFor(goal.Weeks[0], date))
			}
			idx = timeline.Locate(goal.Weeks, date)
			if idx < 0 {
				return 0, ErrWeekNotFound
			}
		}

		week := &goal.Weeks[idx]
		if len(entries) > 0 {
			for _, e := range entries {
				if e.Timestamp.IsZero() {
					e.Timestamp = date
				}
				ledger.AddEntry(week, e)
			}
		} else {
			ledger.SetAggregate(week, amount)
		}
		return week.Number, nil
	})
}

// Progress summarizes a goal's standing against its target.
func (s *GoalService) Progress(goalID string) (*model.Progress, error) {
	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	total := goal.Total()
	remaining := goal.Target - total
	if remaining < 0 {
		remaining = 0
	}
	pct := 0.0
	if goal.Target > 0 {
		pct = total / goal.Target * 100
	}

	p := message.NewPrinter(language.English)
	return &model.Progress{
		TotalSaved:       total,
		Remaining:        remaining,
		PercentComplete:  pct,
		TotalSavedPretty: p.Sprintf("%.2f", total),
		RemainingPretty:  p.Sprintf("%.2f", remaining),
	}, nil
}

// Streak derives the goal's streak summary on demand.
func (s *GoalService) Streak(goalID string) (*model.StreakSummary, error) {
	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}
	streak := ledger.Streak(goal.Weeks)
	return &streak, nil
}

// ExtendCoverage grows the goal's timeline through the current week plus the
// configured lookahead, persisting only when weeks were added. It reports
// whether the timeline grew. It takes the same per-goal lock as the write
// pipeline, so a background extension always works from the latest persisted
// state and cannot clobber a concurrent user write.
func (s *GoalService) ExtendCoverage(goalID string) (bool, error) {
	l := s.lock(goalID)
	l.Lock()
	defer l.Unlock()

	goals, idx, err := s.load(goalID)
	if err != nil {
		return false, err
	}
	goal := &goals[idx]

	if !timeline.EnsureCoverage(goal, s.now(), s.lookahead) {
		return false, nil
	}
	ledger.Recompute(goal.Weeks)
	goal.UpdatedAt = s.now()

	err = s.repo.SaveGoals(goals)
	if err != nil {
		return false, fmt.Errorf("failed to persist goal: %w", err)
	}
	return true, nil
}

// load fetches the goal collection and the index of goalID within it.
func (s *GoalService) load(goalID string) ([]model.Goal, int, error) {
	goals, err := s.repo.Goals()
	if err != nil {
		return nil, 0, err
	}
	for i := range goals {
		if goals[i].ID == goalID {
			return goals, i, nil
		}
	}
	return nil, 0, repository.ErrGoalNotFound
}

// write runs the shared write pipeline: resolve, extend coverage to "now",
// apply the mutation, recompute cumulative totals, persist the goal
// collection, then re-check milestones and achievements against the new
// total. The goal save is the commit point; mutation errors before it leave
// persisted state untouched. Milestone state is derived, so a failure
// persisting it heals on the next check.
func (s *GoalService) write(goalID string, mutate func(goal *model.Goal) (int, error)) (*WriteResult, error) {
	l := s.lock(goalID)
	l.Lock()
	defer l.Unlock()

	goals, idx, err := s.load(goalID)
	if err != nil {
		return nil, err
	}
	goal := &goals[idx]

	timeline.EnsureCoverage(goal, s.now(), s.lookahead)

	weekNumber, err := mutate(goal)
	if err != nil {
		return nil, err
	}

	ledger.Recompute(goal.Weeks)
	goal.UpdatedAt = s.now()

	err = s.repo.SaveGoals(goals)
	if err != nil {
		return nil, fmt.Errorf("failed to persist goal: %w", err)
	}

	achieved, err := s.milestones.Check(goalID, goal.Total())
	if err != nil {
		return nil, fmt.Errorf("failed to update milestones: %w", err)
	}

	badges, err := s.achievements.Evaluate(goal)
	if err != nil {
		slog.Error("failed to evaluate achievements", "error", err, "goal", goalID)
	}

	return &WriteResult{
		Goal:       goal,
		WeekNumber: weekNumber,
		Achieved:   achieved,
		Badges:     badges,
	}, nil
}
