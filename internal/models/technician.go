package models

import "time"

// SkillLevel represents a technician's skill tier.
type SkillLevel string

const (
	SkillJunior       SkillLevel = "junior"
	SkillIntermediate SkillLevel = "intermediate"
	SkillSenior       SkillLevel = "senior"
)

// IsValidSkillLevel checks if a skill level is valid.
func IsValidSkillLevel(s SkillLevel) bool {
	switch s {
	case SkillJunior, SkillIntermediate, SkillSenior:
		return true
	default:
		return false
	}
}

// Technician represents a shop technician.
type Technician struct {
	ID           int64      `json:"id"`
	TechID       string     `json:"tech_id"`
	Name         string     `json:"name"`
	SkillLevel   SkillLevel `json:"skill_level"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CanApprove reports whether the technician may approve escalated decisions.
func (t *Technician) CanApprove() bool {
	return t.SkillLevel == SkillSenior
}
