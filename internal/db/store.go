package db

import (
	"context"
	"errors"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// ErrNotFound is returned by update operations targeting a nonexistent row.
// Single-record getters return (nil, nil) instead, matching the resolver
// contract where an unknown code is an empty result, not an error.
var ErrNotFound = errors.New("record not found")

// FaultCodeStore defines the interface for fault code lookups. Single-record
// getters enrich the result with its typical causes and edge cases.
type FaultCodeStore interface {
	GetBySPNFMI(ctx context.Context, spn, fmi int64) (*models.FaultCode, error)
	GetByOBD2(ctx context.Context, code string) (*models.FaultCode, error)
	GetByPIDSID(ctx context.Context, pidSID string) (*models.FaultCode, error)
	GetByOEMCode(ctx context.Context, code int64) (*models.FaultCode, error)
	GetAll(ctx context.Context) ([]models.FaultCode, error)
	Insert(ctx context.Context, fc models.FaultCode) (int64, error)
	AddTypicalCause(ctx context.Context, faultCodeID int64, cause string, probability float64) error
	AddEdgeCase(ctx context.Context, faultCodeID int64, scenario, likelyCause, aiValueAdd string) error
}

// EngineStore defines the interface for engine records.
type EngineStore interface {
	Insert(ctx context.Context, engine models.Engine) (int64, error)
	GetBySerial(ctx context.Context, serial string) (*models.Engine, error)
	UpdateMileage(ctx context.Context, serial string, mileage int64) error
}

// TechnicianStore defines the interface for technician records.
type TechnicianStore interface {
	Insert(ctx context.Context, tech models.Technician) (int64, error)
	GetByTechID(ctx context.Context, techID string) (*models.Technician, error)
	UpdateLastLogin(ctx context.Context, techID string) error
}

// ServiceHistoryStore defines the interface for engine service history.
type ServiceHistoryStore interface {
	// History returns up to 10 records within the lookback window,
	// most recent first. An unknown serial yields an empty slice.
	History(ctx context.Context, engineSerial string, monthsBack int) ([]models.ServiceRecord, error)
	Add(ctx context.Context, rec models.ServiceRecord) (int64, error)
}

// DecisionLogStore defines the interface for the diagnosis audit trail.
type DecisionLogStore interface {
	Insert(ctx context.Context, d *models.DecisionLog) (int64, error)
	Pending(ctx context.Context) ([]models.DecisionLog, error)
	Approve(ctx context.Context, id int64, approvedBy string) error
	RecordOutcome(ctx context.Context, id int64, actualRepair string, partsUsed []string, successful bool) error
	Get(ctx context.Context, id int64) (*models.DecisionLog, error)
	Recent(ctx context.Context, limit int) ([]models.DecisionLog, error)
}
