package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/servicesync-ai/servicesync/internal/audit"
	"github.com/servicesync-ai/servicesync/internal/db"
	"github.com/servicesync-ai/servicesync/internal/middleware"
)

// DecisionHandler serves the decision log review endpoints
type DecisionHandler struct {
	audit *audit.Service
}

// NewDecisionHandler creates a new decision log handler
func NewDecisionHandler(auditService *audit.Service) *DecisionHandler {
	return &DecisionHandler{audit: auditService}
}

// Pending returns decisions awaiting senior approval, newest first
func (h *DecisionHandler) Pending(w http.ResponseWriter, r *http.Request) {
	decisions, err := h.audit.Pending(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch pending decisions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decisions)
}

// Recent returns the latest decision logs, newest first
func (h *DecisionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	decisions, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to fetch decisions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decisions)
}

// Get returns a single decision log entry
func (h *DecisionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := decisionID(r)
	if err != nil {
		http.Error(w, "Invalid decision id", http.StatusBadRequest)
		return
	}

	decision, err := h.audit.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch decision", http.StatusInternalServerError)
		return
	}
	if decision == nil {
		http.Error(w, "Decision not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decision)
}

// Approve records the authenticated senior technician's approval. The
// senior gate is enforced by middleware before this handler runs.
func (h *DecisionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetTechFromContext(r.Context())
	if !ok {
		http.Error(w, "Technician context not found", http.StatusUnauthorized)
		return
	}

	id, err := decisionID(r)
	if err != nil {
		http.Error(w, "Invalid decision id", http.StatusBadRequest)
		return
	}

	if err := h.audit.Approve(r.Context(), id, claims.TechID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Decision not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to approve decision", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Decision approved"})
}

// OutcomeRequest is the body of a repair outcome report.
type OutcomeRequest struct {
	ActualRepair     string   `json:"actual_repair"`
	PartsUsed        []string `json:"parts_used,omitempty"`
	RepairSuccessful bool     `json:"repair_successful"`
}

// RecordOutcome stores what actually happened after the repair
func (h *DecisionHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	id, err := decisionID(r)
	if err != nil {
		http.Error(w, "Invalid decision id", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req OutcomeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.ActualRepair == "" {
		http.Error(w, "Actual repair is required", http.StatusBadRequest)
		return
	}

	if err := h.audit.RecordOutcome(r.Context(), id, req.ActualRepair, req.PartsUsed, req.RepairSuccessful); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Decision not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to record outcome", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Outcome recorded"})
}

func decisionID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
