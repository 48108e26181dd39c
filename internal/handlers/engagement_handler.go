package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"narration-backend/internal/apperr"
	"narration-backend/internal/models"
	"narration-backend/internal/repositories"
	"narration-backend/internal/services"
	"narration-backend/pkg/utils"
)

type EngagementHandler struct {
	Repo      *repositories.EngagementRepository
	Lifecycle *services.LifecycleService
	Schedule  *services.ScheduleService
}

func NewEngagementHandler(
	repo *repositories.EngagementRepository,
	lifecycle *services.LifecycleService,
	schedule *services.ScheduleService,
) *EngagementHandler {
	return &EngagementHandler{Repo: repo, Lifecycle: lifecycle, Schedule: schedule}
}

// CreateEngagement takes a new client request. With a start date the
// reservation path runs (collision-checked, discount attached); without
// one the engagement enters as an unscheduled pending request.
func (h *EngagementHandler) CreateEngagement(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEngagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.StartDate != "" {
		engagement, reservation, err := h.Schedule.Confirm(r.Context(), &req)
		if err != nil {
			utils.Error(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]interface{}{
			"engagement":  engagement,
			"reservation": reservation,
		})
		return
	}

	if req.ClientName == "" {
		utils.Error(w, apperr.Validation("client name is required"))
		return
	}
	if !models.ValidClientType(req.ClientType) {
		utils.Error(w, apperr.Validation("client type must be 'direct', 'roster' or 'audition'"))
		return
	}
	if req.WordCount < 0 {
		utils.Error(w, apperr.Validation("word count cannot be negative"))
		return
	}

	e := &models.Engagement{
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientType:     req.ClientType,
		BookTitle:      req.BookTitle,
		WordCount:      req.WordCount,
		Status:         models.StatusPending,
		NarrationStyle: req.NarrationStyle,
		IsReturning:    req.IsReturning,
	}
	if err := h.Repo.Create(r.Context(), e); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{"engagement": e})
}

func (h *EngagementHandler) ListEngagements(w http.ResponseWriter, r *http.Request) {
	var (
		engagements []*models.Engagement
		err         error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		engagements, err = h.Repo.ListByStatus(r.Context(), status)
	} else {
		engagements, err = h.Repo.List(r.Context())
	}
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, engagements)
}

func (h *EngagementHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	engagement, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, engagement)
}

// Transition runs a named lifecycle action and returns the refreshed row
func (h *EngagementHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	engagement, err := h.Lifecycle.Transition(r.Context(), id, req.Action)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, engagement)
}

// DeleteEngagement permanently removes a terminal engagement
func (h *EngagementHandler) DeleteEngagement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Lifecycle.PermanentDelete(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
