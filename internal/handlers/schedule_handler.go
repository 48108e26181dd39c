package handlers

import (
	"encoding/json"
	"net/http"

	"narration-backend/internal/services"
	"narration-backend/pkg/utils"
)

type ScheduleHandler struct {
	Service *services.ScheduleService
}

func NewScheduleHandler(s *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: s}
}

// Holds returns the current calendar occupancy
func (h *ScheduleHandler) Holds(w http.ResponseWriter, r *http.Request) {
	holds, err := h.Service.Holds(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, holds)
}

// ProposeRequest asks what a reservation would look like
type ProposeRequest struct {
	WordCount int    `json:"word_count"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

// Propose quotes a reservation (days needed, end date, discount) without
// persisting anything
func (h *ScheduleHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var req ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reservation, err := h.Service.Propose(r.Context(), req.WordCount, req.StartDate)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, reservation)
}
