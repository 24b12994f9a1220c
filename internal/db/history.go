package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// historyLimit caps how many records a history query returns regardless of
// how many fall within the lookback window.
const historyLimit = 10

// DefaultMonthsBack is the default lookback window for history queries.
const DefaultMonthsBack = 6

// SQLiteServiceHistoryStore implements ServiceHistoryStore on SQLite.
type SQLiteServiceHistoryStore struct {
	DB *sql.DB
}

// History returns recent service records for an engine, most recent first.
func (s *SQLiteServiceHistoryStore) History(ctx context.Context, engineSerial string, monthsBack int) ([]models.ServiceRecord, error) {
	if monthsBack <= 0 {
		monthsBack = DefaultMonthsBack
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, engine_serial, service_date, fault_code_input, repair_type,
		        parts_replaced, part_cost, technician_id, technician_notes,
		        warranty_status, created_at
		 FROM service_history
		 WHERE engine_serial = ?
		   AND service_date > date('now', ? || ' months')
		 ORDER BY service_date DESC
		 LIMIT ?`,
		engineSerial, fmt.Sprintf("-%d", monthsBack), historyLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ServiceRecord{}
	for rows.Next() {
		var r models.ServiceRecord
		var serviceDate string
		var faultCode, parts, techID, notes, warranty, createdAt sql.NullString
		var cost sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.EngineSerial, &serviceDate, &faultCode,
			&r.RepairType, &parts, &cost, &techID, &notes, &warranty, &createdAt); err != nil {
			return nil, err
		}
		r.ServiceDate = parseDate(serviceDate)
		r.FaultCodeInput = faultCode.String
		r.PartsReplaced = parts.String
		r.PartCost = cost.Float64
		r.TechnicianID = techID.String
		r.Notes = notes.String
		r.WarrantyStatus = warranty.String
		r.CreatedAt = parseTime(createdAt.String)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Add appends a service record. Records are immutable once written.
func (s *SQLiteServiceHistoryStore) Add(ctx context.Context, rec models.ServiceRecord) (int64, error) {
	if rec.EngineSerial == "" || rec.RepairType == "" {
		return 0, fmt.Errorf("engine_serial and repair_type are required")
	}
	warranty := rec.WarrantyStatus
	if warranty == "" {
		warranty = "none"
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO service_history
		(engine_serial, service_date, fault_code_input, repair_type,
		 parts_replaced, part_cost, technician_id, technician_notes, warranty_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.EngineSerial, rec.ServiceDate.Format(dateLayout),
		nullString(rec.FaultCodeInput), rec.RepairType,
		nullString(rec.PartsReplaced), rec.PartCost,
		nullString(rec.TechnicianID), nullString(rec.Notes), warranty)
	if err != nil {
		return 0, fmt.Errorf("insert service record: %w", err)
	}
	return res.LastInsertId()
}

func parseDate(v string) time.Time {
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t
	}
	return parseTime(v)
}
