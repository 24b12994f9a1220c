package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/servicesync-ai/servicesync/internal/db"
	"github.com/servicesync-ai/servicesync/internal/models"
)

// CodeResolver resolves a fault-code input to its canonical record.
type CodeResolver interface {
	Resolve(ctx context.Context, input string) (*models.FaultCode, error)
}

// FaultCodeHandler serves the fault code reference catalog
type FaultCodeHandler struct {
	store    db.FaultCodeStore
	resolver CodeResolver
}

// NewFaultCodeHandler creates a new fault code handler
func NewFaultCodeHandler(store db.FaultCodeStore, resolver CodeResolver) *FaultCodeHandler {
	return &FaultCodeHandler{
		store:    store,
		resolver: resolver,
	}
}

// List returns all fault codes in the catalog
func (h *FaultCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.store.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch fault codes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(codes)
}

// Resolve looks up a fault code by any supported notation
func (h *FaultCodeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Query parameter 'code' is required", http.StatusBadRequest)
		return
	}

	fc, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to resolve fault code", http.StatusInternalServerError)
		return
	}
	if fc == nil {
		http.Error(w, "Fault code not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fc)
}
