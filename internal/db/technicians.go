package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// SQLiteTechnicianStore implements TechnicianStore on SQLite.
type SQLiteTechnicianStore struct {
	DB *sql.DB
}

// Insert adds a new technician and returns the row id.
func (s *SQLiteTechnicianStore) Insert(ctx context.Context, tech models.Technician) (int64, error) {
	if tech.TechID == "" || tech.Name == "" {
		return 0, fmt.Errorf("tech_id and name are required")
	}
	if !models.IsValidSkillLevel(tech.SkillLevel) {
		return 0, fmt.Errorf("invalid skill level: %s", tech.SkillLevel)
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO technicians (tech_id, name, skill_level, email, phone, password_hash, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, 1)`,
		tech.TechID, tech.Name, string(tech.SkillLevel),
		nullString(tech.Email), nullString(tech.Phone), nullString(tech.PasswordHash))
	if err != nil {
		return 0, fmt.Errorf("insert technician: %w", err)
	}
	return res.LastInsertId()
}

// GetByTechID finds a technician by their shop id. Returns (nil, nil) when
// unknown.
func (s *SQLiteTechnicianStore) GetByTechID(ctx context.Context, techID string) (*models.Technician, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, tech_id, name, skill_level, email, phone, password_hash,
		        is_active, last_login, created_at, updated_at
		 FROM technicians WHERE tech_id = ?`, techID)

	var t models.Technician
	var email, phone, hash, lastLogin, createdAt, updatedAt sql.NullString
	var skill string
	err := row.Scan(&t.ID, &t.TechID, &t.Name, &skill, &email, &phone, &hash,
		&t.IsActive, &lastLogin, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.SkillLevel = models.SkillLevel(skill)
	t.Email = email.String
	t.Phone = phone.String
	t.PasswordHash = hash.String
	if lastLogin.Valid {
		ts := parseTime(lastLogin.String)
		t.LastLogin = &ts
	}
	t.CreatedAt = parseTime(createdAt.String)
	t.UpdatedAt = parseTime(updatedAt.String)
	return &t, nil
}

// UpdateLastLogin stamps the technician's last login time.
func (s *SQLiteTechnicianStore) UpdateLastLogin(ctx context.Context, techID string) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.DB.ExecContext(ctx,
		`UPDATE technicians SET last_login = ?, updated_at = ? WHERE tech_id = ?`,
		now, now, techID)
	if err != nil {
		return err
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
