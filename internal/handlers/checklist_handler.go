package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"narration-backend/internal/models"
	"narration-backend/internal/repositories"
	"narration-backend/internal/services"
	"narration-backend/pkg/utils"
)

type ChecklistHandler struct {
	Repo      *repositories.ChecklistRepository
	Lifecycle *services.LifecycleService
}

func NewChecklistHandler(repo *repositories.ChecklistRepository, lifecycle *services.LifecycleService) *ChecklistHandler {
	return &ChecklistHandler{Repo: repo, Lifecycle: lifecycle}
}

func (h *ChecklistHandler) ListChecklists(w http.ResponseWriter, r *http.Request) {
	checklists, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, checklists)
}

func (h *ChecklistHandler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	checklist, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, checklist)
}

// GetByEngagement returns the checklist companion of an onboarding engagement
func (h *ChecklistHandler) GetByEngagement(w http.ResponseWriter, r *http.Request) {
	requestID, _ := strconv.Atoi(mux.Vars(r)["request_id"])

	checklist, err := h.Repo.GetByRequestID(r.Context(), requestID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, checklist)
}

// UpdateChecklist applies partial flag updates
func (h *ChecklistHandler) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	checklist, err := h.Lifecycle.UpdateChecklist(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, checklist)
}

// AddStrike records one more client transgression
func (h *ChecklistHandler) AddStrike(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	checklist, err := h.Lifecycle.AddStrike(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, checklist)
}

// ResetStrikes clears the strike counter after things are smoothed over
func (h *ChecklistHandler) ResetStrikes(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	checklist, err := h.Lifecycle.ResetStrikes(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, checklist)
}
