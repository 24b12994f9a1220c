// Package orchestrator sequences one diagnosis cycle: service history
// lookup, AI triage, escalation decision. It assembles the combined result
// but does not persist it; writing the decision log is an explicit step the
// caller performs afterwards.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/servicesync-ai/servicesync/internal/db"
	"github.com/servicesync-ai/servicesync/internal/escalation"
	"github.com/servicesync-ai/servicesync/internal/models"
	"github.com/servicesync-ai/servicesync/internal/triage"
)

// CodeResolver resolves a fault-code input to its canonical record.
type CodeResolver interface {
	Resolve(ctx context.Context, input string) (*models.FaultCode, error)
}

// HistoryReader retrieves the service history window for an engine.
type HistoryReader interface {
	History(ctx context.Context, engineSerial string, monthsBack int) ([]models.ServiceRecord, error)
}

// Orchestrator runs complete diagnosis cycles.
type Orchestrator struct {
	resolver CodeResolver
	history  HistoryReader
	triage   *triage.Service
}

// New creates an orchestrator from its three collaborators.
func New(resolver CodeResolver, history HistoryReader, triageService *triage.Service) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		history:  history,
		triage:   triageService,
	}
}

// Run executes one diagnosis cycle: history, AI analysis, escalation
// decision. The repair complexity fed to the escalation policy comes from
// the resolved fault code's tier, defaulting to medium when the code is
// unknown.
func (o *Orchestrator) Run(ctx context.Context, faultCodeInput, symptoms, engineSerial string, techSkill models.SkillLevel) (*models.DiagnosisResult, error) {
	logger := log.WithFields(log.Fields{
		"fault_code":    faultCodeInput,
		"engine_serial": engineSerial,
	})
	logger.Info("Starting diagnosis cycle")

	faultCode, err := o.resolver.Resolve(ctx, faultCodeInput)
	if err != nil {
		return nil, fmt.Errorf("resolve fault code: %w", err)
	}

	records, err := o.history.History(ctx, engineSerial, db.DefaultMonthsBack)
	if err != nil {
		return nil, fmt.Errorf("fetch service history: %w", err)
	}
	summary := SummarizeHistory(records)
	logger.WithField("history_records", len(records)).Info("Service history fetched")

	diagnosis := o.triage.Diagnose(ctx, faultCodeInput, symptoms, summary)
	logger.WithFields(log.Fields{
		"diagnosis":  diagnosis.Diagnosis,
		"confidence": diagnosis.Confidence,
	}).Info("AI analysis complete")

	complexity := models.ComplexityMedium
	if faultCode != nil && models.IsValidComplexity(faultCode.Complexity) {
		complexity = faultCode.Complexity
	}

	decision := escalation.Decide(diagnosis.Confidence, complexity, techSkill)
	logger.WithFields(log.Fields{
		"decision":          decision.Decision,
		"requires_approval": decision.RequiresApproval,
	}).Info("Escalation decision made")

	return &models.DiagnosisResult{
		Timestamp: time.Now().UTC(),
		Input: models.DiagnosisInput{
			FaultCode:    faultCodeInput,
			Symptoms:     symptoms,
			EngineSerial: engineSerial,
			TechSkill:    techSkill,
		},
		FaultCode:      faultCode,
		ServiceHistory: records,
		HistorySummary: summary,
		Diagnosis:      diagnosis,
		Decision:       decision,
	}, nil
}

// SummarizeHistory renders a short natural-language summary of recent
// service records for use as diagnosis context.
func SummarizeHistory(records []models.ServiceRecord) string {
	if len(records) == 0 {
		return "No service history found"
	}

	repairs := make([]string, 0, len(records))
	for _, r := range records {
		repairs = append(repairs, r.RepairType)
	}
	return fmt.Sprintf("Last service: %s. Recent repairs: %s.",
		records[0].ServiceDate.Format("2006-01-02"),
		strings.Join(repairs, ", "))
}
