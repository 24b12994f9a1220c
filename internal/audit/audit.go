// Package audit is the decision log service: every AI-assisted diagnosis is
// persisted for later review, with approval and repair outcome filled in by
// explicit follow-up steps.
package audit

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/servicesync-ai/servicesync/internal/db"
	"github.com/servicesync-ai/servicesync/internal/models"
)

// CodeResolver resolves a fault-code input to its canonical record.
type CodeResolver interface {
	Resolve(ctx context.Context, input string) (*models.FaultCode, error)
}

// Service wraps the decision log store with fault-code resolution on write.
type Service struct {
	store    db.DecisionLogStore
	resolver CodeResolver
}

// NewService creates the audit service.
func NewService(store db.DecisionLogStore, resolver CodeResolver) *Service {
	return &Service{store: store, resolver: resolver}
}

// Log persists one decision log entry. The fault-code input is resolved
// best-effort to attach the canonical reference; an unresolvable code
// leaves the reference null rather than failing the write.
func (s *Service) Log(ctx context.Context, entry *models.DecisionLog) (int64, error) {
	if entry.FaultCodeID == nil && entry.FaultCodeInput != "" {
		resolved, err := s.resolver.Resolve(ctx, entry.FaultCodeInput)
		if err != nil {
			log.WithError(err).WithField("fault_code", entry.FaultCodeInput).
				Warn("Fault code resolution failed while logging decision")
		} else if resolved != nil {
			entry.FaultCodeID = &resolved.ID
		}
	}

	id, err := s.store.Insert(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("log decision: %w", err)
	}
	log.WithFields(log.Fields{
		"decision_id":       id,
		"engine_serial":     entry.EngineSerial,
		"requires_approval": entry.RequiresApproval,
	}).Info("Decision logged")
	return id, nil
}

// Pending returns decisions awaiting senior approval, newest first.
func (s *Service) Pending(ctx context.Context) ([]models.DecisionLog, error) {
	return s.store.Pending(ctx)
}

// Approve records a senior technician's approval. Returns db.ErrNotFound
// for an unknown id.
func (s *Service) Approve(ctx context.Context, id int64, approvedBy string) error {
	if err := s.store.Approve(ctx, id, approvedBy); err != nil {
		return err
	}
	log.WithFields(log.Fields{"decision_id": id, "approved_by": approvedBy}).Info("Decision approved")
	return nil
}

// RecordOutcome stores what actually happened after the repair. Calling it
// again overwrites the previous outcome; last write wins. Returns
// db.ErrNotFound for an unknown id.
func (s *Service) RecordOutcome(ctx context.Context, id int64, actualRepair string, partsUsed []string, successful bool) error {
	if err := s.store.RecordOutcome(ctx, id, actualRepair, partsUsed, successful); err != nil {
		return err
	}
	log.WithFields(log.Fields{"decision_id": id, "successful": successful}).Info("Repair outcome recorded")
	return nil
}

// Get returns a specific decision log entry, or (nil, nil) when unknown.
func (s *Service) Get(ctx context.Context, id int64) (*models.DecisionLog, error) {
	return s.store.Get(ctx, id)
}

// Recent returns the latest decision logs, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.DecisionLog, error) {
	return s.store.Recent(ctx, limit)
}
