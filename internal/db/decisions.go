package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// SQLiteDecisionLogStore implements DecisionLogStore on SQLite.
type SQLiteDecisionLogStore struct {
	DB *sql.DB
}

const decisionColumns = `id, timestamp, engine_serial, fault_code_input, fault_code_id,
	tech_id, tech_skill_level, symptoms, insite_data, triage_diagnosis,
	triage_confidence, triage_reasoning, alternative_causes, recommended_tests,
	recent_repairs, service_history_flags, escalation_decision,
	escalation_reasoning, requires_approval, approved_by, approval_timestamp,
	actual_repair, parts_used, repair_successful, online_status, llm_model,
	llm_version, created_at, updated_at`

// Insert persists one decision log row. The timestamp is set at write time
// if the caller left it zero. Structured sub-fields are serialized as JSON
// text blobs.
func (s *SQLiteDecisionLogStore) Insert(ctx context.Context, d *models.DecisionLog) (int64, error) {
	ts := d.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO decision_logs
		(timestamp, engine_serial, fault_code_input, fault_code_id, tech_id,
		 tech_skill_level, symptoms, insite_data, triage_diagnosis,
		 triage_confidence, triage_reasoning, alternative_causes,
		 recommended_tests, recent_repairs, service_history_flags,
		 escalation_decision, escalation_reasoning, requires_approval,
		 online_status, llm_model, llm_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(timeLayout), d.EngineSerial, d.FaultCodeInput,
		nullInt64(d.FaultCodeID), d.TechID, string(d.TechSkillLevel),
		nullString(d.Symptoms), nullString(d.InsiteData),
		d.TriageDiagnosis, d.TriageConfidence, d.TriageReasoning,
		marshalStrings(d.AlternativeCauses), marshalStrings(d.RecommendedTests),
		marshalStrings(d.RecentRepairs), marshalStrings(d.ServiceHistoryFlags),
		d.EscalationDecision, d.EscalationReasoning, d.RequiresApproval,
		nullString(d.OnlineStatus), nullString(d.LLMModel), nullString(d.LLMVersion))
	if err != nil {
		return 0, fmt.Errorf("insert decision log: %w", err)
	}
	return res.LastInsertId()
}

// Pending returns all decisions awaiting senior approval, newest first.
func (s *SQLiteDecisionLogStore) Pending(ctx context.Context) ([]models.DecisionLog, error) {
	return s.query(ctx,
		`SELECT `+decisionColumns+` FROM decision_logs
		 WHERE requires_approval = 1 AND approved_by IS NULL
		 ORDER BY timestamp DESC`)
}

// Approve marks a decision as approved by a senior technician. Returns
// ErrNotFound when the id does not exist.
func (s *SQLiteDecisionLogStore) Approve(ctx context.Context, id int64, approvedBy string) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.DB.ExecContext(ctx,
		`UPDATE decision_logs
		 SET approved_by = ?, approval_timestamp = ?, updated_at = ?
		 WHERE id = ?`,
		approvedBy, now, now, id)
	if err != nil {
		return fmt.Errorf("approve decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordOutcome fills in the post-repair outcome fields. A second call
// overwrites the first; last write wins. Returns ErrNotFound when the id
// does not exist.
func (s *SQLiteDecisionLogStore) RecordOutcome(ctx context.Context, id int64, actualRepair string, partsUsed []string, successful bool) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.DB.ExecContext(ctx,
		`UPDATE decision_logs
		 SET actual_repair = ?, parts_used = ?, repair_successful = ?, updated_at = ?
		 WHERE id = ?`,
		actualRepair, marshalStrings(partsUsed), successful, now, id)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a specific decision log entry, or (nil, nil) when unknown.
func (s *SQLiteDecisionLogStore) Get(ctx context.Context, id int64) (*models.DecisionLog, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+decisionColumns+` FROM decision_logs WHERE id = ?`, id)
	d, err := scanDecision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Recent returns the most recent decision logs, newest first.
func (s *SQLiteDecisionLogStore) Recent(ctx context.Context, limit int) ([]models.DecisionLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx,
		`SELECT `+decisionColumns+` FROM decision_logs
		 ORDER BY timestamp DESC LIMIT ?`, limit)
}

func (s *SQLiteDecisionLogStore) query(ctx context.Context, q string, args ...interface{}) ([]models.DecisionLog, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.DecisionLog{}
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *d)
	}
	return logs, rows.Err()
}

func scanDecision(row scanner) (*models.DecisionLog, error) {
	var d models.DecisionLog
	var timestamp string
	var faultCodeID sql.NullInt64
	var skill, symptoms, insite, diagnosis, reasoning sql.NullString
	var confidence sql.NullInt64
	var altCauses, recTests, recentRepairs, historyFlags sql.NullString
	var escDecision, escReasoning sql.NullString
	var requiresApproval sql.NullBool
	var approvedBy, approvalTS, actualRepair, partsUsed sql.NullString
	var repairSuccessful sql.NullBool
	var onlineStatus, llmModel, llmVersion, createdAt, updatedAt sql.NullString

	err := row.Scan(&d.ID, &timestamp, &d.EngineSerial, &d.FaultCodeInput,
		&faultCodeID, &d.TechID, &skill, &symptoms, &insite, &diagnosis,
		&confidence, &reasoning, &altCauses, &recTests, &recentRepairs,
		&historyFlags, &escDecision, &escReasoning, &requiresApproval,
		&approvedBy, &approvalTS, &actualRepair, &partsUsed,
		&repairSuccessful, &onlineStatus, &llmModel, &llmVersion,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	d.Timestamp = parseTime(timestamp)
	if faultCodeID.Valid {
		d.FaultCodeID = &faultCodeID.Int64
	}
	d.TechSkillLevel = models.SkillLevel(skill.String)
	d.Symptoms = symptoms.String
	d.InsiteData = insite.String
	d.TriageDiagnosis = diagnosis.String
	d.TriageConfidence = int(confidence.Int64)
	d.TriageReasoning = reasoning.String
	d.AlternativeCauses = unmarshalStrings(altCauses.String)
	d.RecommendedTests = unmarshalStrings(recTests.String)
	d.RecentRepairs = unmarshalStrings(recentRepairs.String)
	d.ServiceHistoryFlags = unmarshalStrings(historyFlags.String)
	d.EscalationDecision = escDecision.String
	d.EscalationReasoning = escReasoning.String
	d.RequiresApproval = requiresApproval.Bool
	d.ApprovedBy = approvedBy.String
	if approvalTS.Valid {
		ts := parseTime(approvalTS.String)
		d.ApprovalTimestamp = &ts
	}
	d.ActualRepair = actualRepair.String
	d.PartsUsed = unmarshalStrings(partsUsed.String)
	if repairSuccessful.Valid {
		d.RepairSuccessful = &repairSuccessful.Bool
	}
	d.OnlineStatus = onlineStatus.String
	d.LLMModel = llmModel.String
	d.LLMVersion = llmVersion.String
	d.CreatedAt = parseTime(createdAt.String)
	d.UpdatedAt = parseTime(updatedAt.String)
	return &d, nil
}

func marshalStrings(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(data)
}

func unmarshalStrings(blob string) []string {
	if blob == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(blob), &values); err != nil {
		return nil
	}
	return values
}
