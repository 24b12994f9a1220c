package models

import "time"

// Complexity represents the repair complexity tier of a fault code.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// IsValidComplexity checks if a complexity tier is valid.
func IsValidComplexity(c Complexity) bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	default:
		return false
	}
}

// FaultCode is the canonical diagnostic code record. A code may be known
// under several notations at once (SPN/FMI, OBD-II, PID/SID, OEM numeric);
// at least one is always present.
type FaultCode struct {
	ID             int64      `json:"id"`
	OEMCode        *int64     `json:"oem_code,omitempty"`
	SPN            *int64     `json:"spn,omitempty"`
	FMI            *int64     `json:"fmi,omitempty"`
	OBD2Code       string     `json:"obd2_code,omitempty"`
	PIDSID         string     `json:"pid_sid,omitempty"`
	Description    string     `json:"description"`
	SystemCategory string     `json:"system_category"`
	Complexity     Complexity `json:"complexity"`
	SafetyCritical bool       `json:"safety_critical"`
	CausesDerate   bool       `json:"causes_derate"`
	QSOLProcedure  string     `json:"qsol_procedure,omitempty"`
	AppliesTo      string     `json:"applies_to"`
	CreatedAt      time.Time  `json:"created_at"`

	TypicalCauses []TypicalCause `json:"typical_causes,omitempty"`
	EdgeCases     []EdgeCase     `json:"edge_cases,omitempty"`
}

// TypicalCause is one common cause of a fault code with a probability weight.
type TypicalCause struct {
	ID          int64   `json:"id"`
	FaultCodeID int64   `json:"fault_code_id"`
	Cause       string  `json:"cause"`
	Probability float64 `json:"probability"`
}

// EdgeCase is a scenario where the static reference material falls short
// and AI triage adds value over it.
type EdgeCase struct {
	ID          int64  `json:"id"`
	FaultCodeID int64  `json:"fault_code_id"`
	Scenario    string `json:"scenario"`
	LikelyCause string `json:"likely_cause"`
	AIValueAdd  string `json:"ai_value_add"`
}
