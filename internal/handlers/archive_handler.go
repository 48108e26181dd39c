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

type ArchiveHandler struct {
	Repo      *repositories.ArchiveRepository
	Lifecycle *services.LifecycleService
}

func NewArchiveHandler(repo *repositories.ArchiveRepository, lifecycle *services.LifecycleService) *ArchiveHandler {
	return &ArchiveHandler{Repo: repo, Lifecycle: lifecycle}
}

func (h *ArchiveHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, snapshots)
}

func (h *ArchiveHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	snapshot, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, snapshot)
}

// ToggleBlacklist flips the do-not-contact flag on a snapshot
func (h *ArchiveHandler) ToggleBlacklist(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.ToggleBlacklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snapshot, err := h.Lifecycle.ToggleBlacklist(r.Context(), id, req.IsBlacklisted, req.Reason)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, snapshot)
}

// Revive restores a booted engagement from its snapshot
func (h *ArchiveHandler) Revive(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	engagement, err := h.Lifecycle.ReviveFromArchive(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, engagement)
}

// DeleteSnapshot permanently removes an archive snapshot
func (h *ArchiveHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Lifecycle.DeleteSnapshot(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
