package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/servicesync-ai/servicesync/internal/db"
	"github.com/servicesync-ai/servicesync/internal/models"
)

// EngineHandler serves engine records and their service history
type EngineHandler struct {
	engines db.EngineStore
	history db.ServiceHistoryStore
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(engines db.EngineStore, history db.ServiceHistoryStore) *EngineHandler {
	return &EngineHandler{
		engines: engines,
		history: history,
	}
}

// Create registers a new engine
func (h *EngineHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var engine models.Engine
	if err := json.Unmarshal(body, &engine); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if engine.EngineSerial == "" || engine.EngineModel == "" {
		http.Error(w, "Engine serial and model are required", http.StatusBadRequest)
		return
	}

	existing, err := h.engines.GetBySerial(r.Context(), engine.EngineSerial)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Engine serial already exists", http.StatusConflict)
		return
	}

	engine.CreatedAt = time.Now().UTC()
	id, err := h.engines.Insert(r.Context(), engine)
	if err != nil {
		http.Error(w, "Failed to create engine", http.StatusInternalServerError)
		return
	}
	engine.ID = id

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(engine)
}

// History returns recent service records for an engine, most recent first.
// The lookback window defaults to six months and can be widened with the
// months query parameter.
func (h *EngineHandler) History(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")
	if serial == "" {
		http.Error(w, "Engine serial is required", http.StatusBadRequest)
		return
	}

	monthsBack := db.DefaultMonthsBack
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid months parameter", http.StatusBadRequest)
			return
		}
		monthsBack = n
	}

	records, err := h.history.History(r.Context(), serial, monthsBack)
	if err != nil {
		http.Error(w, "Failed to fetch service history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// AddHistory appends a service record to an engine's history
func (h *EngineHandler) AddHistory(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")
	if serial == "" {
		http.Error(w, "Engine serial is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var rec models.ServiceRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	rec.EngineSerial = serial
	if rec.RepairType == "" {
		http.Error(w, "Repair type is required", http.StatusBadRequest)
		return
	}
	if rec.ServiceDate.IsZero() {
		rec.ServiceDate = time.Now().UTC()
	}

	id, err := h.history.Add(r.Context(), rec)
	if err != nil {
		http.Error(w, "Failed to add service record", http.StatusInternalServerError)
		return
	}
	rec.ID = id

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}
