package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"narration-backend/internal/services"
	"narration-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// StatementPDF renders one engagement's settlement statement as PDF
func (h *ReportHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	data, err := h.Service.GetStatementData(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	pdf, err := h.Service.GenerateStatementPDF(data)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="statement_%d.pdf"`, id))
	w.Write(pdf)
}

// LedgerCSV exports settlement figures for all engagements, optionally
// filtered by ?tab=open|waiting|paid
func (h *ReportHandler) LedgerCSV(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")

	data, err := h.Service.GenerateLedgerCSV(r.Context(), tab)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	w.Write(data)
}
