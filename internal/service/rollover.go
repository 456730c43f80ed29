package service

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// RolloverService runs a scheduled pass that keeps every goal's timeline
// extended ahead of the current real-world week, so the week a user is about
// to record into always exists even if they have been away for months.
type RolloverService struct {
	goals *GoalService
	cron  *cron.Cron
}

func NewRolloverService(goals *GoalService) *RolloverService {
	return &RolloverService{
		goals: goals,
		cron:  cron.New(),
	}
}

// Start registers the rollover job under the given cron spec and starts the
// scheduler.
func (s *RolloverService) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.RunOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("rollover scheduler started", "schedule", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *RolloverService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce extends forward coverage for every goal, one goal at a time through
// the facade so each extension serializes with user writes on that goal. New
// weeks are empty, so cumulative totals and milestone state are unaffected.
func (s *RolloverService) RunOnce() {
	goals, err := s.goals.Goals()
	if err != nil {
		slog.Error("rollover: failed to load goals", "error", err)
		return
	}

	grown := 0
	for i := range goals {
		extended, err := s.goals.ExtendCoverage(goals[i].ID)
		if err != nil {
			slog.Error("rollover: failed to extend goal", "error", err, "goal", goals[i].ID)
			continue
		}
		if extended {
			grown++
		}
	}
	if grown > 0 {
		slog.Info("rollover extended timelines", "goals", grown)
	}
}
