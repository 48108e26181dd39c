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

type SettlementHandler struct {
	Service *services.SettlementService
}

func NewSettlementHandler(s *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{Service: s}
}

// GetSettlement returns the derived financial picture for an engagement
func (h *SettlementHandler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	view, err := h.Service.GetSettlement(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, view)
}

// UpdateInvoice applies partial invoice term updates
func (h *SettlementHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.UpdateInvoice(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

func (h *SettlementHandler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.AddLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.Service.AddLineItem(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, item)
}

func (h *SettlementHandler) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])
	itemID, _ := strconv.Atoi(vars["item_id"])

	if err := h.Service.DeleteLineItem(r.Context(), id, itemID); err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EscalateInvoice bumps the overdue reminder ladder one level
func (h *SettlementHandler) EscalateInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["invoice_id"])

	invoice, err := h.Service.EscalateInvoice(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

// ResetInvoice clears the reminder ladder, typically after payment lands
func (h *SettlementHandler) ResetInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["invoice_id"])

	invoice, err := h.Service.ResetInvoice(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}
