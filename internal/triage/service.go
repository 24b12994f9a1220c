// Package triage asks the language-model backend for a diagnosis and turns
// its reply into a structured result. A broken or missing reply never
// surfaces as an error: it degrades to a zero-confidence fallback, which
// the escalation policy treats as an automatic escalation. That chain is
// the safety mechanism for unsupervised repairs.
package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// Fallback values returned whenever the backend call or parse fails.
const (
	FallbackDiagnosis = "Unable to diagnose"
	FallbackReasoning = "Error parsing AI response"
)

// Service produces AI diagnoses for fault codes.
type Service struct {
	client Client
}

// NewService creates a triage service over the given completion backend.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// Model returns the backend model identifier, for audit logging.
func (s *Service) Model() string {
	return s.client.Model()
}

// Diagnose sends the fault code, symptoms and optional context to the
// backend and parses the constrained JSON reply. Never returns an error:
// any failure yields the fixed fallback with confidence 0.
func (s *Service) Diagnose(ctx context.Context, faultCode, symptoms, contextText string) models.Diagnosis {
	prompt := buildPrompt(faultCode, symptoms, contextText)

	raw, err := s.client.Complete(ctx, prompt)
	if err != nil {
		log.WithError(err).WithField("fault_code", faultCode).Warn("Diagnosis backend call failed")
		return fallback()
	}

	diagnosis, err := parseDiagnosis(raw)
	if err != nil {
		log.WithError(err).WithField("fault_code", faultCode).Warn("Failed to parse diagnosis response")
		return fallback()
	}
	return diagnosis
}

func fallback() models.Diagnosis {
	return models.Diagnosis{
		Diagnosis:  FallbackDiagnosis,
		Confidence: 0,
		Reasoning:  FallbackReasoning,
	}
}

func buildPrompt(faultCode, symptoms, contextText string) string {
	var b strings.Builder
	b.WriteString("You are a Cummins diesel engine diagnostician.\n\n")
	fmt.Fprintf(&b, "Error: %s\n", faultCode)
	fmt.Fprintf(&b, "Symptoms: %s\n", symptoms)
	fmt.Fprintf(&b, "Context: %s\n\n", contextText)
	b.WriteString(`Analyze and provide ONLY this JSON (no other text):
{
  "diagnosis": "most likely issue in one sentence",
  "confidence": 85,
  "reasoning": "why in one sentence"
}`)
	return b.String()
}

// parseDiagnosis decodes the backend reply. The backend is asked for pure
// JSON, but replies wrapped in prose are tolerated by extracting the
// outermost brace pair.
func parseDiagnosis(raw string) (models.Diagnosis, error) {
	text := strings.TrimSpace(raw)

	var d models.Diagnosis
	if err := json.Unmarshal([]byte(text), &d); err == nil {
		return validate(d)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return models.Diagnosis{}, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &d); err != nil {
		return models.Diagnosis{}, fmt.Errorf("decode diagnosis: %w", err)
	}
	return validate(d)
}

func validate(d models.Diagnosis) (models.Diagnosis, error) {
	if d.Diagnosis == "" {
		return models.Diagnosis{}, fmt.Errorf("empty diagnosis field")
	}
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 100 {
		d.Confidence = 100
	}
	return d, nil
}
