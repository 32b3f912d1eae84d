package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/learningjourney/journey/internal/rest"
	"github.com/learningjourney/journey/pkg/plan"
	log "github.com/sirupsen/logrus"
)

type GoalDTO struct {
	HabitName         string    `json:"habitName"`
	Plan              string    `json:"plan"`
	FreezeAllowance   int       `json:"freezeAllowance"`
	HasSeenOnboarding bool      `json:"hasSeenOnboarding"`
	HasSetGoal        bool      `json:"hasSetGoal"`
	UpdatedAt         time.Time `json:"updatedAt,omitzero"`
}

type UpdateGoalRequest struct {
	HabitName string `json:"habitName" validate:"max=100"`
	Plan      string `json:"plan" validate:"required,oneof=Week Month Year week month year"`
	Confirm   bool   `json:"confirm"`
}

type Handler struct {
	service   Service
	validator *rest.Validator
}

func NewHandler(service Service, validator *rest.Validator) *Handler {
	return &Handler{service: service, validator: validator}
}

// GetGoal returns the current goal or the defaults.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Get(r.Context())
	if err != nil {
		log.Errorf("failed to get goal: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get goal", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, GoalToDTO(g))
}

// UpdateGoal saves habit name and plan. Renaming an active goal answers 409 until the request
// is repeated with confirm=true.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	req, p, ok := h.decode(w, r)
	if !ok {
		return
	}
	g, err := h.service.Update(r.Context(), req.HabitName, p, req.Confirm)
	if err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			rest.WriteError(w, http.StatusConflict, "Confirmation required", err.Error())
			return
		}
		if errors.Is(err, ErrBlankHabitName) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid goal", err.Error())
			return
		}
		log.Errorf("failed to update goal: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to update goal", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, GoalToDTO(g))
}

// CompleteOnboarding stores the goal chosen on the onboarding screen.
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	req, p, ok := h.decode(w, r)
	if !ok {
		return
	}
	g, err := h.service.CompleteOnboarding(r.Context(), req.HabitName, p)
	if err != nil {
		log.Errorf("failed to complete onboarding: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to complete onboarding", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, GoalToDTO(g))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (UpdateGoalRequest, plan.Plan, bool) {
	var req UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return req, plan.Week, false
	}
	if err := h.validator.Validate(req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid goal", err.Error())
		return req, plan.Week, false
	}
	p, err := plan.Parse(req.Plan)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid goal", err.Error())
		return req, plan.Week, false
	}
	return req, p, true
}

func GoalToDTO(g Goal) GoalDTO {
	return GoalDTO{
		HabitName:         g.HabitName,
		Plan:              g.Plan.String(),
		FreezeAllowance:   g.Plan.FreezeAllowance(),
		HasSeenOnboarding: g.HasSeenOnboarding,
		HasSetGoal:        g.HasSetGoal,
		UpdatedAt:         g.UpdatedAt,
	}
}
