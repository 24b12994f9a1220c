package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSkillLevel(t *testing.T) {
	tests := []struct {
		name  string
		skill SkillLevel
		want  bool
	}{
		{"junior is valid", SkillJunior, true},
		{"intermediate is valid", SkillIntermediate, true},
		{"senior is valid", SkillSenior, true},
		{"empty is invalid", "", false},
		{"unknown is invalid", "master", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidSkillLevel(tt.skill))
		})
	}
}

func TestTechnician_CanApprove(t *testing.T) {
	assert.True(t, (&Technician{SkillLevel: SkillSenior}).CanApprove())
	assert.False(t, (&Technician{SkillLevel: SkillIntermediate}).CanApprove())
	assert.False(t, (&Technician{SkillLevel: SkillJunior}).CanApprove())
}

func TestTechnician_PasswordHashNotSerialized(t *testing.T) {
	tech := Technician{
		TechID:       "TECH-001",
		Name:         "Sam Delgado",
		PasswordHash: "secret-hash",
	}

	data, err := json.Marshal(tech)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
}
