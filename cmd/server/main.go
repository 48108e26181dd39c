package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"narration-backend/internal/auth"
	"narration-backend/internal/backup"
	"narration-backend/internal/cache"
	"narration-backend/internal/config"
	"narration-backend/internal/database"
	"narration-backend/internal/db"
	"narration-backend/internal/handlers"
	"narration-backend/internal/health"
	h "narration-backend/internal/http"
	"narration-backend/internal/middleware"
	"narration-backend/internal/monitoring"
	"narration-backend/internal/repositories"
	"narration-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; everything degrades to direct reads without it
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (settlements recompute on every read)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Migrations are embedded so the binary bootstraps its own schema
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)
	collector := monitoring.NewCollector(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	engagementRepo := repositories.NewEngagementRepository(pool)
	checklistRepo := repositories.NewChecklistRepository(pool)
	archiveRepo := repositories.NewArchiveRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	sessionLogRepo := repositories.NewSessionLogRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	lifecycleService := services.NewLifecycleService(engagementRepo, checklistRepo, archiveRepo, invoiceRepo)
	scheduleService := services.NewScheduleService(engagementRepo)
	settlementService := services.NewSettlementService(engagementRepo, invoiceRepo, sessionLogRepo)
	sessionLogService := services.NewSessionLogService(sessionLogRepo, engagementRepo)
	reportService := services.NewReportService(engagementRepo, invoiceRepo, settlementService)

	// Offsite snapshot export is optional, keyed on backup config
	exporter, err := backup.New(ctx, cfg)
	if err != nil {
		log.Printf("[Backup] Snapshot export disabled: %v", err)
	} else if exporter != nil {
		log.Println("[Backup] Snapshot export to R2 enabled")
		lifecycleService.SetExporter(exporter)
	}

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	engagementHandler := handlers.NewEngagementHandler(engagementRepo, lifecycleService, scheduleService)
	checklistHandler := handlers.NewChecklistHandler(checklistRepo, lifecycleService)
	archiveHandler := handlers.NewArchiveHandler(archiveRepo, lifecycleService)
	settlementHandler := handlers.NewSettlementHandler(settlementService)
	sessionLogHandler := handlers.NewSessionLogHandler(sessionLogService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker, collector)

	router := h.NewRouter(
		authHandler,
		engagementHandler,
		checklistHandler,
		archiveHandler,
		settlementHandler,
		sessionLogHandler,
		scheduleHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
