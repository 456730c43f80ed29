package handler

import (
	"log/slog"
	"net/http"

	"github.com/sambright/nestegg/internal/markdown"
	"github.com/sambright/nestegg/internal/model"
	"github.com/sambright/nestegg/internal/service"
)

type MilestoneHandler struct {
	goals        *service.GoalService
	milestones   *service.MilestoneService
	achievements *service.AchievementService
}

func NewMilestoneHandler(
	goals *service.GoalService,
	milestones *service.MilestoneService,
	achievements *service.AchievementService,
) *MilestoneHandler {
	return &MilestoneHandler{
		goals:        goals,
		milestones:   milestones,
		achievements: achievements,
	}
}

// milestoneView decorates a milestone with its reward text rendered from
// markdown, for clients that display it directly.
type milestoneView struct {
	model.Milestone
	RewardHTML string `json:"reward_html,omitempty"`
}

func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	// Resolve first so a missing goal is a 404, not an empty list.
	_, err := h.goals.ByID(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	milestones, err := h.milestones.ByGoal(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]milestoneView, 0, len(milestones))
	for _, m := range milestones {
		view := milestoneView{Milestone: m}
		if m.Reward != "" {
			html, err := markdown.Render(m.Reward)
			if err != nil {
				slog.Warn("failed to render reward markdown", "error", err, "milestone", m.ID)
			} else {
				view.RewardHTML = html
			}
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "milestones": views})
}

func (h *MilestoneHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	_, err := h.goals.ByID(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	achievements, err := h.achievements.ByGoal(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "achievements": achievements})
}
