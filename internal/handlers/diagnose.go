package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/servicesync-ai/servicesync/internal/audit"
	"github.com/servicesync-ai/servicesync/internal/ingest"
	"github.com/servicesync-ai/servicesync/internal/middleware"
	"github.com/servicesync-ai/servicesync/internal/models"
	"github.com/servicesync-ai/servicesync/internal/orchestrator"
)

// DiagnoseRequest is the body of a diagnosis request. Tool data is optional;
// when absent the latest cached tool snapshot for the engine is used.
type DiagnoseRequest struct {
	FaultCode    string `json:"fault_code"`
	Symptoms     string `json:"symptoms"`
	EngineSerial string `json:"engine_serial"`
	InsiteData   string `json:"insite_data,omitempty"`
}

// DiagnoseResponse wraps the diagnosis result with its audit record id.
type DiagnoseResponse struct {
	DecisionID int64                   `json:"decision_id"`
	Result     *models.DiagnosisResult `json:"result"`
}

// DiagnoseHandler runs diagnosis cycles and persists them to the decision log
type DiagnoseHandler struct {
	orchestrator *orchestrator.Orchestrator
	audit        *audit.Service
	snapshots    *ingest.SnapshotCache
	llmModel     string
}

// NewDiagnoseHandler creates a new diagnosis handler
func NewDiagnoseHandler(orch *orchestrator.Orchestrator, auditService *audit.Service, snapshots *ingest.SnapshotCache, llmModel string) *DiagnoseHandler {
	return &DiagnoseHandler{
		orchestrator: orch,
		audit:        auditService,
		snapshots:    snapshots,
		llmModel:     llmModel,
	}
}

// Diagnose runs one diagnosis cycle and logs the decision
func (h *DiagnoseHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetTechFromContext(r.Context())
	if !ok {
		http.Error(w, "Technician context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req DiagnoseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.FaultCode == "" || req.EngineSerial == "" {
		http.Error(w, "Fault code and engine serial are required", http.StatusBadRequest)
		return
	}

	if req.InsiteData == "" && h.snapshots != nil {
		if snap, found := h.snapshots.Latest(req.EngineSerial); found {
			req.InsiteData = snap.Summary()
		}
	}

	result, err := h.orchestrator.Run(r.Context(), req.FaultCode, req.Symptoms, req.EngineSerial, claims.SkillLevel)
	if err != nil {
		log.WithError(err).WithField("fault_code", req.FaultCode).Error("Diagnosis cycle failed")
		http.Error(w, "Diagnosis failed", http.StatusInternalServerError)
		return
	}

	entry := decisionFromResult(result, claims, req.InsiteData, h.llmModel)
	decisionID, err := h.audit.Log(r.Context(), entry)
	if err != nil {
		log.WithError(err).Error("Failed to log decision")
		http.Error(w, "Failed to log decision", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(DiagnoseResponse{
		DecisionID: decisionID,
		Result:     result,
	})
}

// decisionFromResult assembles the audit record for one completed cycle.
func decisionFromResult(result *models.DiagnosisResult, claims *models.Claims, insiteData, llmModel string) *models.DecisionLog {
	recentRepairs := make([]string, 0, len(result.ServiceHistory))
	for _, rec := range result.ServiceHistory {
		recentRepairs = append(recentRepairs, rec.RepairType)
	}

	var faultCodeID *int64
	if result.FaultCode != nil {
		faultCodeID = &result.FaultCode.ID
	}

	return &models.DecisionLog{
		Timestamp:           result.Timestamp,
		EngineSerial:        result.Input.EngineSerial,
		FaultCodeInput:      result.Input.FaultCode,
		FaultCodeID:         faultCodeID,
		TechID:              claims.TechID,
		TechSkillLevel:      claims.SkillLevel,
		Symptoms:            result.Input.Symptoms,
		InsiteData:          insiteData,
		TriageDiagnosis:     result.Diagnosis.Diagnosis,
		TriageConfidence:    result.Diagnosis.Confidence,
		TriageReasoning:     result.Diagnosis.Reasoning,
		RecentRepairs:       recentRepairs,
		EscalationDecision:  result.Decision.Decision,
		EscalationReasoning: result.Decision.Reasoning,
		RequiresApproval:    result.Decision.RequiresApproval,
		OnlineStatus:        "online",
		LLMModel:            llmModel,
	}
}
