package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sambright/nestegg/internal/model"
	"github.com/sambright/nestegg/internal/service"
	"github.com/sambright/nestegg/internal/validation"
)

// GoalHandler is the thin JSON adapter over the ledger facade. It parses and
// validates wire input, delegates, and maps results; no ledger logic lives
// here.
type GoalHandler struct {
	goals  *service.GoalService
	notify *service.NotifyService
	owner  string // notification recipient; a single-client app has one owner
}

func NewGoalHandler(goals *service.GoalService, notify *service.NotifyService, ownerEmail string) *GoalHandler {
	return &GoalHandler{
		goals:  goals,
		notify: notify,
		owner:  ownerEmail,
	}
}

type createGoalRequest struct {
	Name        string  `json:"name"`
	Target      float64 `json:"target"`
	StartDate   string  `json:"start_date"`
	Description string  `json:"description"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", validation.ErrValidation))
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, fmt.Errorf("%w: unparseable start_date %q", validation.ErrValidation, req.StartDate))
		return
	}

	goal, err := h.goals.Create(req.Name, req.Target, start, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"goal_id": goal.ID,
		"goal":    goal,
	})
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goals.Goals()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "goals": goals})
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goals.ByID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

type updateGoalRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Target      *float64 `json:"target"`
	Deadline    *string  `json:"deadline"`
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateGoalRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", validation.ErrValidation))
		return
	}

	patch := service.GoalPatch{
		Name:        req.Name,
		Description: req.Description,
		Target:      req.Target,
	}
	if req.Deadline != nil {
		deadline, err := parseDate(*req.Deadline)
		if err != nil {
			writeError(w, fmt.Errorf("%w: unparseable deadline %q", validation.ErrValidation, *req.Deadline))
			return
		}
		patch.Deadline = &deadline
	}

	goal, err := h.goals.Update(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.goals.Delete(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *GoalHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	err := h.goals.SetActive(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *GoalHandler) Active(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goals.ActiveGoal()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

type recordWeekRequest struct {
	Amount float64 `json:"amount"`
}

func (h *GoalHandler) RecordWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid week number", validation.ErrValidation))
		return
	}

	var req recordWeekRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", validation.ErrValidation))
		return
	}

	result, err := h.goals.RecordWeek(r.PathValue("id"), week, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResult(w, result)
}

type entryRequest struct {
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
	Note      string  `json:"note"`
}

func (h *GoalHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid week number", validation.ErrValidation))
		return
	}

	var req entryRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", validation.ErrValidation))
		return
	}

	entry := model.Entry{Amount: req.Amount, Note: req.Note}
	if req.Timestamp != "" {
		ts, err := parseDate(req.Timestamp)
		if err != nil {
			writeError(w, fmt.Errorf("%w: unparseable timestamp %q", validation.ErrValidation, req.Timestamp))
			return
		}
		entry.Timestamp = ts
	}

	result, err := h.goals.AddEntry(r.PathValue("id"), week, entry)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResult(w, result)
}

type entryPatchRequest struct {
	Amount    *float64 `json:"amount"`
	Timestamp *string  `json:"timestamp"`
	Note      *string  `json:"note"`
}

func (h *GoalHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	week, index, err := weekAndIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req entryPatchRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", validation.ErrValidation))
		return
	}

	patch := model.EntryPatch{Amount: req.Amount, Note: req.Note}
	if req.Timestamp != nil {
		ts, err := parseDate(*req.Timestamp)
		if err != nil {
			writeError(w, fmt.Errorf("%w: unparseable timestamp %q", validation.ErrValidation, *req.Timestamp))
			return
		}
		patch.Timestamp = &ts
	}

	result, err := h.goals.UpdateEntry(r.PathValue("id"), week, index, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResult(w, result)
}

func (h *GoalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	week, index, err := weekAndIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.goals.DeleteEntry(r.PathValue("id"), week, index)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResult(w, result)
}

type backfillRequest struct {
	Date    string         `json:"date"`
	Amount  float64        `json:"amount"`
	Entries []entryRequest `json:"entries"`
}

func (h *GoalHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	var req backfillRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", validation.ErrValidation))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, fmt.Errorf("%w: unparseable date %q", validation.ErrValidation, req.Date))
		return
	}

	entries := make([]model.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entry := model.Entry{Amount: e.Amount, Note: e.Note}
		if e.Timestamp != "" {
			ts, err := parseDate(e.Timestamp)
			if err != nil {
				writeError(w, fmt.Errorf("%w: unparseable timestamp %q", validation.ErrValidation, e.Timestamp))
				return
			}
			entry.Timestamp = ts
		}
		entries = append(entries, entry)
	}

	result, err := h.goals.Backfill(r.PathValue("id"), date, req.Amount, entries)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResult(w, result)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.goals.Progress(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "progress": progress})
}

func (h *GoalHandler) Streak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.goals.Streak(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "streak": streak})
}

// writeResult reports a ledger write, surfacing the highest newly achieved
// milestone as the headline and firing the congratulation mail for it.
func (h *GoalHandler) writeResult(w http.ResponseWriter, result *service.WriteResult) {
	if headline := result.Headline(); headline != nil && h.notify != nil {
		err := h.notify.MilestoneAchieved(h.owner, result.Goal, *headline)
		if err != nil {
			// Notification is best-effort; the write already committed.
			slog.Warn("milestone notification failed", "error", err, "goal", result.Goal.ID)
		}
	}
	writeJSON(w, http.StatusOK, h.resultPayload(result))
}

func (h *GoalHandler) resultPayload(result *service.WriteResult) map[string]any {
	payload := map[string]any{
		"success":     true,
		"week_number": result.WeekNumber,
		"goal":        result.Goal,
	}
	if headline := result.Headline(); headline != nil {
		payload["achieved_milestone"] = headline
	}
	if len(result.Badges) > 0 {
		payload["new_achievements"] = result.Badges
	}
	return payload
}

func weekAndIndex(r *http.Request) (int, int, error) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid week number", validation.ErrValidation)
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid entry index", validation.ErrValidation)
	}
	return week, index, nil
}
