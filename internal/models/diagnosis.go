package models

import "time"

// Diagnosis is the structured result returned by the AI triage step.
type Diagnosis struct {
	Diagnosis  string `json:"diagnosis"`
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// Escalation decision labels.
const (
	DecisionProceed             = "PROCEED"
	DecisionProceedWithGuidance = "PROCEED_WITH_GUIDANCE"
	DecisionEscalate            = "ESCALATE"
)

// EscalationDecision is the outcome of the escalation policy.
type EscalationDecision struct {
	Decision         string `json:"decision"`
	Reasoning        string `json:"reasoning"`
	RequiresApproval bool   `json:"requires_approval"`
}

// DiagnosisInput echoes the original inputs of a diagnosis cycle.
type DiagnosisInput struct {
	FaultCode    string     `json:"fault_code"`
	Symptoms     string     `json:"symptoms"`
	EngineSerial string     `json:"engine_serial"`
	TechSkill    SkillLevel `json:"tech_skill"`
}

// DiagnosisResult bundles everything produced by one diagnosis cycle.
// Persisting it to the decision log is a separate, explicit step.
type DiagnosisResult struct {
	Timestamp      time.Time          `json:"timestamp"`
	Input          DiagnosisInput     `json:"input"`
	FaultCode      *FaultCode         `json:"fault_code_record,omitempty"`
	ServiceHistory []ServiceRecord    `json:"service_history"`
	HistorySummary string             `json:"history_summary"`
	Diagnosis      Diagnosis          `json:"diagnosis"`
	Decision       EscalationDecision `json:"decision"`
}
