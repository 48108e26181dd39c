package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"narration-backend/internal/handlers"
	"narration-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	engagementHandler *handlers.EngagementHandler,
	checklistHandler *handlers.ChecklistHandler,
	archiveHandler *handlers.ArchiveHandler,
	settlementHandler *handlers.SettlementHandler,
	sessionLogHandler *handlers.SessionLogHandler,
	scheduleHandler *handlers.ScheduleHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public - auth and probes
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected API routes - Engagements and their lifecycle
	engagementsAPI := r.PathPrefix("/api/engagements").Subrouter()
	engagementsAPI.Use(authMiddleware.Authenticate)
	engagementsAPI.HandleFunc("", engagementHandler.ListEngagements).Methods("GET")
	engagementsAPI.HandleFunc("", engagementHandler.CreateEngagement).Methods("POST")
	engagementsAPI.HandleFunc("/{id}", engagementHandler.GetEngagement).Methods("GET")
	engagementsAPI.HandleFunc("/{id}", engagementHandler.DeleteEngagement).Methods("DELETE")
	engagementsAPI.HandleFunc("/{id}/transition", engagementHandler.Transition).Methods("POST")

	// Settlement view and invoice terms hang off the engagement
	engagementsAPI.HandleFunc("/{id}/settlement", settlementHandler.GetSettlement).Methods("GET")
	engagementsAPI.HandleFunc("/{id}/invoice", settlementHandler.UpdateInvoice).Methods("PUT")
	engagementsAPI.HandleFunc("/{id}/line-items", settlementHandler.AddLineItem).Methods("POST")
	engagementsAPI.HandleFunc("/{id}/line-items/{item_id}", settlementHandler.DeleteLineItem).Methods("DELETE")
	engagementsAPI.HandleFunc("/{id}/sessions", sessionLogHandler.ListByEngagement).Methods("GET")
	engagementsAPI.HandleFunc("/{id}/statement.pdf", reportHandler.StatementPDF).Methods("GET")

	// Protected API routes - Onboarding checklists
	checklistsAPI := r.PathPrefix("/api/checklists").Subrouter()
	checklistsAPI.Use(authMiddleware.Authenticate)
	checklistsAPI.HandleFunc("", checklistHandler.ListChecklists).Methods("GET")
	checklistsAPI.HandleFunc("/{id}", checklistHandler.GetChecklist).Methods("GET")
	checklistsAPI.HandleFunc("/{id}", checklistHandler.UpdateChecklist).Methods("PUT")
	checklistsAPI.HandleFunc("/{id}/strikes", checklistHandler.AddStrike).Methods("POST")
	checklistsAPI.HandleFunc("/{id}/strikes", checklistHandler.ResetStrikes).Methods("DELETE")
	checklistsAPI.HandleFunc("/engagement/{request_id}", checklistHandler.GetByEngagement).Methods("GET")

	// Protected API routes - Archive snapshots
	archivesAPI := r.PathPrefix("/api/archives").Subrouter()
	archivesAPI.Use(authMiddleware.Authenticate)
	archivesAPI.HandleFunc("", archiveHandler.ListSnapshots).Methods("GET")
	archivesAPI.HandleFunc("/{id}", archiveHandler.GetSnapshot).Methods("GET")
	archivesAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin")(http.HandlerFunc(archiveHandler.DeleteSnapshot)).ServeHTTP).Methods("DELETE")
	archivesAPI.HandleFunc("/{id}/blacklist", archiveHandler.ToggleBlacklist).Methods("PATCH")
	archivesAPI.HandleFunc("/{id}/revive", archiveHandler.Revive).Methods("POST")

	// Protected API routes - Invoice reminder ladder
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("/{invoice_id}/escalate", settlementHandler.EscalateInvoice).Methods("POST")
	invoicesAPI.HandleFunc("/{invoice_id}/reminders", settlementHandler.ResetInvoice).Methods("DELETE")

	// Protected API routes - Session logs
	sessionsAPI := r.PathPrefix("/api/sessions").Subrouter()
	sessionsAPI.Use(authMiddleware.Authenticate)
	sessionsAPI.HandleFunc("", sessionLogHandler.LogSession).Methods("POST")
	sessionsAPI.HandleFunc("/{id}", sessionLogHandler.DeleteSession).Methods("DELETE")

	// Protected API routes - Calendar and reservations
	calendarAPI := r.PathPrefix("/api/calendar").Subrouter()
	calendarAPI.Use(authMiddleware.Authenticate)
	calendarAPI.HandleFunc("/holds", scheduleHandler.Holds).Methods("GET")
	calendarAPI.HandleFunc("/propose", scheduleHandler.Propose).Methods("POST")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/ledger.csv", reportHandler.LedgerCSV).Methods("GET")

	// Protected - system stats
	systemAPI := r.PathPrefix("/api/system").Subrouter()
	systemAPI.Use(authMiddleware.Authenticate)
	systemAPI.HandleFunc("/stats", healthHandler.SystemStats).Methods("GET")

	return r
}
