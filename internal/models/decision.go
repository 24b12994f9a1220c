package models

import "time"

// DecisionLog is the audit-of-record for one diagnosis cycle. Context,
// inputs and AI analysis are written once; approval and outcome fields are
// filled in later by explicit steps. Rows are never deleted.
type DecisionLog struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Context
	EngineSerial   string     `json:"engine_serial"`
	FaultCodeInput string     `json:"fault_code_input"`
	FaultCodeID    *int64     `json:"fault_code_id,omitempty"`
	TechID         string     `json:"tech_id"`
	TechSkillLevel SkillLevel `json:"tech_skill_level"`

	// Inputs
	Symptoms   string `json:"symptoms,omitempty"`
	InsiteData string `json:"insite_data,omitempty"`

	// AI analysis
	TriageDiagnosis     string   `json:"triage_diagnosis"`
	TriageConfidence    int      `json:"triage_confidence"`
	TriageReasoning     string   `json:"triage_reasoning"`
	AlternativeCauses   []string `json:"alternative_causes,omitempty"`
	RecommendedTests    []string `json:"recommended_tests,omitempty"`
	RecentRepairs       []string `json:"recent_repairs,omitempty"`
	ServiceHistoryFlags []string `json:"service_history_flags,omitempty"`

	// Escalation
	EscalationDecision  string `json:"escalation_decision"`
	EscalationReasoning string `json:"escalation_reasoning"`
	RequiresApproval    bool   `json:"requires_approval"`

	// Outcome (filled in after repair)
	ApprovedBy        string     `json:"approved_by,omitempty"`
	ApprovalTimestamp *time.Time `json:"approval_timestamp,omitempty"`
	ActualRepair      string     `json:"actual_repair,omitempty"`
	PartsUsed         []string   `json:"parts_used,omitempty"`
	RepairSuccessful  *bool      `json:"repair_successful,omitempty"`

	// Metadata
	OnlineStatus string    `json:"online_status,omitempty"`
	LLMModel     string    `json:"llm_model,omitempty"`
	LLMVersion   string    `json:"llm_version,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsPending reports whether the decision still awaits senior approval.
func (d *DecisionLog) IsPending() bool {
	return d.RequiresApproval && d.ApprovedBy == ""
}
