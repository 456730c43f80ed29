package routes

import (
	"net/http"

	"github.com/sambright/nestegg/internal/app"
	"github.com/sambright/nestegg/internal/handler"
	"github.com/sambright/nestegg/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	goal := handler.NewGoalHandler(a.GoalService, a.NotifyService, a.Cfg.OwnerEmail)
	milestone := handler.NewMilestoneHandler(a.GoalService, a.MilestoneService, a.AchievementService)
	backup := handler.NewBackupHandler(a.BackupService)

	mux := http.NewServeMux()

	// Goals
	mux.HandleFunc("GET /api/goals", goal.List)
	mux.HandleFunc("POST /api/goals", goal.Create)
	mux.HandleFunc("GET /api/goals/active", goal.Active)
	mux.HandleFunc("GET /api/goals/{id}", goal.Get)
	mux.HandleFunc("PATCH /api/goals/{id}", goal.Update)
	mux.HandleFunc("DELETE /api/goals/{id}", goal.Delete)
	mux.HandleFunc("PUT /api/goals/{id}/active", goal.SetActive)

	// Ledger writes
	mux.HandleFunc("PUT /api/goals/{id}/weeks/{week}", goal.RecordWeek)
	mux.HandleFunc("POST /api/goals/{id}/weeks/{week}/entries", goal.AddEntry)
	mux.HandleFunc("PATCH /api/goals/{id}/weeks/{week}/entries/{index}", goal.UpdateEntry)
	mux.HandleFunc("DELETE /api/goals/{id}/weeks/{week}/entries/{index}", goal.DeleteEntry)
	mux.HandleFunc("POST /api/goals/{id}/backfill", goal.Backfill)

	// Derived reads
	mux.HandleFunc("GET /api/goals/{id}/progress", goal.Progress)
	mux.HandleFunc("GET /api/goals/{id}/streak", goal.Streak)
	mux.HandleFunc("GET /api/goals/{id}/milestones", milestone.List)
	mux.HandleFunc("GET /api/goals/{id}/achievements", milestone.Achievements)

	// Maintenance
	mux.HandleFunc("POST /api/backup", backup.Run)

	return middleware.Chain(mux,
		middleware.Recover,
		middleware.RequestLogging,
	)
}
