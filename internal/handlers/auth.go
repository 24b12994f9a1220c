package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/servicesync-ai/servicesync/internal/auth"
	"github.com/servicesync-ai/servicesync/internal/db"
	"github.com/servicesync-ai/servicesync/internal/models"
)

// AuthHandler handles technician authentication requests
type AuthHandler struct {
	authService *auth.Service
	techStore   db.TechnicianStore
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, techStore db.TechnicianStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		techStore:   techStore,
	}
}

// Login handles technician login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var loginReq models.LoginRequest
	if err := json.Unmarshal(body, &loginReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if loginReq.TechID == "" || loginReq.Password == "" {
		http.Error(w, "Tech ID and password are required", http.StatusBadRequest)
		return
	}

	tech, err := h.techStore.GetByTechID(r.Context(), loginReq.TechID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if tech == nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !tech.IsActive {
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, tech.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(tech)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := h.techStore.UpdateLastLogin(r.Context(), tech.TechID); err != nil {
		// Log but don't fail the login
		log.WithError(err).WithField("tech_id", tech.TechID).Warn("Failed to update last login")
	}

	response := models.LoginResponse{
		Token:      token,
		Technician: *tech,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Register handles technician registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var registerReq models.RegisterRequest
	if err := json.Unmarshal(body, &registerReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if registerReq.TechID == "" || registerReq.Name == "" {
		http.Error(w, "Tech ID and name are required", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidatePassword(registerReq.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !models.IsValidSkillLevel(registerReq.SkillLevel) {
		http.Error(w, "Invalid skill level", http.StatusBadRequest)
		return
	}

	existing, err := h.techStore.GetByTechID(r.Context(), registerReq.TechID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Tech ID already exists", http.StatusConflict)
		return
	}

	passwordHash, err := h.authService.HashPassword(registerReq.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	tech := models.Technician{
		TechID:       registerReq.TechID,
		Name:         registerReq.Name,
		SkillLevel:   registerReq.SkillLevel,
		Email:        registerReq.Email,
		Phone:        registerReq.Phone,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if _, err := h.techStore.Insert(r.Context(), tech); err != nil {
		http.Error(w, "Failed to create technician", http.StatusInternalServerError)
		return
	}

	token, err := h.authService.GenerateToken(&tech)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := models.LoginResponse{
		Token:      token,
		Technician: tech,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}
