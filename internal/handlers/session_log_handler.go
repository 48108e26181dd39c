package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"narration-backend/internal/models"
	"narration-backend/internal/services"
	"narration-backend/pkg/utils"
)

type SessionLogHandler struct {
	Service *services.SessionLogService
}

func NewSessionLogHandler(s *services.SessionLogService) *SessionLogHandler {
	return &SessionLogHandler{Service: s}
}

func (h *SessionLogHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	log, err := h.Service.LogSession(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, log)
}

func (h *SessionLogHandler) ListByEngagement(w http.ResponseWriter, r *http.Request) {
	projectID, _ := strconv.Atoi(mux.Vars(r)["id"])

	logs, err := h.Service.ListSessions(r.Context(), projectID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, logs)
}

func (h *SessionLogHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.DeleteSession(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
