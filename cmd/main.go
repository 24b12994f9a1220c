package main

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/servicesync-ai/servicesync/internal/audit"
	"github.com/servicesync-ai/servicesync/internal/auth"
	"github.com/servicesync-ai/servicesync/internal/config"
	"github.com/servicesync-ai/servicesync/internal/db"
	"github.com/servicesync-ai/servicesync/internal/handlers"
	"github.com/servicesync-ai/servicesync/internal/ingest"
	"github.com/servicesync-ai/servicesync/internal/middleware"
	"github.com/servicesync-ai/servicesync/internal/models"
	"github.com/servicesync-ai/servicesync/internal/orchestrator"
	"github.com/servicesync-ai/servicesync/internal/resolver"
	"github.com/servicesync-ai/servicesync/internal/triage"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func main() {
	cfg := config.Load()

	conn, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		log.WithError(err).Fatal("Failed to create schema")
	}
	if cfg.SeedData {
		if err := db.Seed(context.Background(), conn); err != nil {
			log.WithError(err).Fatal("Failed to seed reference data")
		}
	}
	log.WithField("path", cfg.DatabasePath).Info("Database ready")

	// Stores
	faultCodes := &db.SQLiteFaultCodeStore{DB: conn}
	engines := &db.SQLiteEngineStore{DB: conn}
	technicians := &db.SQLiteTechnicianStore{DB: conn}
	history := &db.SQLiteServiceHistoryStore{DB: conn}
	decisions := &db.SQLiteDecisionLogStore{DB: conn}

	// Services
	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	codeResolver := resolver.New(faultCodes)
	triageService := triage.NewService(triage.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaTimeout))
	orch := orchestrator.New(codeResolver, history, triageService)
	auditService := audit.NewService(decisions, codeResolver)

	// Tool snapshot feed is optional; the server runs without a broker.
	snapshots := ingest.NewSnapshotCache()
	if cfg.MQTTBroker != "" {
		sub, err := ingest.NewSubscriber(ingest.Config{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		}, snapshots)
		if err != nil {
			log.WithError(err).Warn("Tool snapshot feed unavailable")
		} else {
			if err := sub.Start(); err != nil {
				log.WithError(err).Warn("Failed to subscribe to tool snapshot feed")
			}
			defer sub.Stop()
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, technicians)
	diagnoseHandler := handlers.NewDiagnoseHandler(orch, auditService, snapshots, triageService.Model())
	faultCodeHandler := handlers.NewFaultCodeHandler(faultCodes, codeResolver)
	engineHandler := handlers.NewEngineHandler(engines, history)
	decisionHandler := handlers.NewDecisionHandler(auditService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	seniorOnly := authMiddleware.RequireSkill(models.SkillSenior)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/diagnose", diagnoseHandler.Diagnose)
	mux.HandleFunc("GET /api/faultcodes", faultCodeHandler.List)
	mux.HandleFunc("GET /api/faultcodes/resolve", faultCodeHandler.Resolve)
	mux.HandleFunc("POST /api/engines", engineHandler.Create)
	mux.HandleFunc("GET /api/engines/{serial}/history", engineHandler.History)
	mux.HandleFunc("POST /api/engines/{serial}/history", engineHandler.AddHistory)
	mux.HandleFunc("GET /api/decisions/pending", decisionHandler.Pending)
	mux.HandleFunc("GET /api/decisions/recent", decisionHandler.Recent)
	mux.HandleFunc("GET /api/decisions/{id}", decisionHandler.Get)
	mux.Handle("POST /api/decisions/{id}/approve", seniorOnly(http.HandlerFunc(decisionHandler.Approve)))
	mux.HandleFunc("POST /api/decisions/{id}/outcome", decisionHandler.RecordOutcome)

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	log.WithFields(log.Fields{
		"port":  cfg.Port,
		"model": cfg.OllamaModel,
	}).Info("ServiceSync server listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
