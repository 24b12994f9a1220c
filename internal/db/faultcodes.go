package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// timeLayout matches sqlite's datetime('now') output. All timestamps are
// stored as UTC text in this format.
const timeLayout = "2006-01-02 15:04:05"

// dateLayout is used for service dates.
const dateLayout = "2006-01-02"

// SQLiteFaultCodeStore implements FaultCodeStore on SQLite.
type SQLiteFaultCodeStore struct {
	DB *sql.DB
}

const faultCodeColumns = `id, oem_code, spn, fmi, obd2_code, pid_sid, description,
	system_category, complexity, safety_critical, causes_derate, qsol_procedure,
	applies_to, created_at`

func (s *SQLiteFaultCodeStore) getOne(ctx context.Context, where string, args ...interface{}) (*models.FaultCode, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+faultCodeColumns+` FROM fault_codes WHERE `+where, args...)

	fc, err := scanFaultCode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, fc); err != nil {
		return nil, err
	}
	return fc, nil
}

// GetBySPNFMI looks up by SPN and FMI numbers (heavy-duty J1939 format).
func (s *SQLiteFaultCodeStore) GetBySPNFMI(ctx context.Context, spn, fmi int64) (*models.FaultCode, error) {
	return s.getOne(ctx, "spn = ? AND fmi = ?", spn, fmi)
}

// GetByOBD2 looks up by OBD-II P-code (light/medium-duty format).
func (s *SQLiteFaultCodeStore) GetByOBD2(ctx context.Context, code string) (*models.FaultCode, error) {
	return s.getOne(ctx, "obd2_code = ?", code)
}

// GetByPIDSID looks up by PID/SID identifier (legacy J1587/J1708 format).
func (s *SQLiteFaultCodeStore) GetByPIDSID(ctx context.Context, pidSID string) (*models.FaultCode, error) {
	return s.getOne(ctx, "pid_sid = ?", pidSID)
}

// GetByOEMCode looks up by the manufacturer's numeric fault code.
func (s *SQLiteFaultCodeStore) GetByOEMCode(ctx context.Context, code int64) (*models.FaultCode, error) {
	return s.getOne(ctx, "oem_code = ?", code)
}

// GetAll returns every fault code, ordered by SPN/FMI, without enrichment.
func (s *SQLiteFaultCodeStore) GetAll(ctx context.Context) ([]models.FaultCode, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+faultCodeColumns+` FROM fault_codes ORDER BY spn, fmi`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.FaultCode
	for rows.Next() {
		fc, err := scanFaultCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *fc)
	}
	return codes, rows.Err()
}

// Insert adds a new fault code and returns its id.
func (s *SQLiteFaultCodeStore) Insert(ctx context.Context, fc models.FaultCode) (int64, error) {
	if !models.IsValidComplexity(fc.Complexity) {
		return 0, fmt.Errorf("invalid complexity: %s", fc.Complexity)
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO fault_codes
		(oem_code, spn, fmi, obd2_code, pid_sid, description, system_category,
		 complexity, safety_critical, causes_derate, qsol_procedure, applies_to)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullInt64(fc.OEMCode), nullInt64(fc.SPN), nullInt64(fc.FMI),
		nullString(fc.OBD2Code), nullString(fc.PIDSID), fc.Description,
		nullString(fc.SystemCategory), string(fc.Complexity),
		fc.SafetyCritical, fc.CausesDerate, nullString(fc.QSOLProcedure),
		fc.AppliesTo)
	if err != nil {
		return 0, fmt.Errorf("insert fault code: %w", err)
	}
	return res.LastInsertId()
}

// AddTypicalCause attaches a typical cause to a fault code.
func (s *SQLiteFaultCodeStore) AddTypicalCause(ctx context.Context, faultCodeID int64, cause string, probability float64) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO typical_causes (fault_code_id, cause, probability) VALUES (?, ?, ?)`,
		faultCodeID, cause, probability)
	return err
}

// AddEdgeCase attaches an edge case scenario to a fault code.
func (s *SQLiteFaultCodeStore) AddEdgeCase(ctx context.Context, faultCodeID int64, scenario, likelyCause, aiValueAdd string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO edge_cases (fault_code_id, scenario, likely_cause, ai_value_add) VALUES (?, ?, ?, ?)`,
		faultCodeID, scenario, likelyCause, aiValueAdd)
	return err
}

// enrich loads the full typical cause and edge case sets for a fault code.
func (s *SQLiteFaultCodeStore) enrich(ctx context.Context, fc *models.FaultCode) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, fault_code_id, cause, probability FROM typical_causes WHERE fault_code_id = ?`,
		fc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tc models.TypicalCause
		var prob sql.NullFloat64
		if err := rows.Scan(&tc.ID, &tc.FaultCodeID, &tc.Cause, &prob); err != nil {
			return err
		}
		tc.Probability = prob.Float64
		fc.TypicalCauses = append(fc.TypicalCauses, tc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	edgeRows, err := s.DB.QueryContext(ctx,
		`SELECT id, fault_code_id, scenario, likely_cause, ai_value_add FROM edge_cases WHERE fault_code_id = ?`,
		fc.ID)
	if err != nil {
		return err
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var ec models.EdgeCase
		if err := edgeRows.Scan(&ec.ID, &ec.FaultCodeID, &ec.Scenario, &ec.LikelyCause, &ec.AIValueAdd); err != nil {
			return err
		}
		fc.EdgeCases = append(fc.EdgeCases, ec)
	}
	return edgeRows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFaultCode(row scanner) (*models.FaultCode, error) {
	var fc models.FaultCode
	var oemCode, spn, fmi sql.NullInt64
	var obd2, pidSID, category, qsol, appliesTo, createdAt sql.NullString
	var complexity sql.NullString

	err := row.Scan(&fc.ID, &oemCode, &spn, &fmi, &obd2, &pidSID, &fc.Description,
		&category, &complexity, &fc.SafetyCritical, &fc.CausesDerate, &qsol,
		&appliesTo, &createdAt)
	if err != nil {
		return nil, err
	}

	if oemCode.Valid {
		fc.OEMCode = &oemCode.Int64
	}
	if spn.Valid {
		fc.SPN = &spn.Int64
	}
	if fmi.Valid {
		fc.FMI = &fmi.Int64
	}
	fc.OBD2Code = obd2.String
	fc.PIDSID = pidSID.String
	fc.SystemCategory = category.String
	fc.Complexity = models.Complexity(complexity.String)
	fc.QSOLProcedure = qsol.String
	fc.AppliesTo = appliesTo.String
	fc.CreatedAt = parseTime(createdAt.String)
	return &fc, nil
}

func nullInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(timeLayout, v); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	return time.Time{}
}
