package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/servicesync-ai/servicesync/internal/models"
)

func testService() *Service {
	return NewService("test-secret", time.Hour)
}

func TestNewService_DefaultExpiry(t *testing.T) {
	service := NewService("secret", 0)
	assert.Equal(t, 24*time.Hour, service.tokenExp)
}

func TestService_HashPassword(t *testing.T) {
	service := testService()

	password := "testpassword123"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestService_CheckPassword(t *testing.T) {
	service := testService()

	password := "testpassword123"
	hash, _ := service.HashPassword(password)

	assert.True(t, service.CheckPassword(password, hash))
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestService_GenerateToken(t *testing.T) {
	service := testService()

	tech := &models.Technician{
		TechID:     "TECH-001",
		Name:       "Sam Delgado",
		SkillLevel: models.SkillSenior,
	}

	token, err := service.GenerateToken(tech)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_ValidateToken(t *testing.T) {
	service := testService()

	tech := &models.Technician{
		TechID:     "TECH-001",
		Name:       "Sam Delgado",
		SkillLevel: models.SkillSenior,
	}

	token, _ := service.GenerateToken(tech)

	// Valid token
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, tech.TechID, claims.TechID)
	assert.Equal(t, tech.Name, claims.Name)
	assert.Equal(t, tech.SkillLevel, claims.SkillLevel)

	// Invalid token
	_, err = service.ValidateToken("invalid-token")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)

	// Bearer prefix is stripped
	_, err = service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	tech := &models.Technician{TechID: "TECH-001", Name: "Sam", SkillLevel: models.SkillJunior}

	token, _ := NewService("secret-a", time.Hour).GenerateToken(tech)
	_, err := NewService("secret-b", time.Hour).ValidateToken(token)

	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	service := NewService("test-secret", -time.Hour)
	// Negative expiry falls back to the default, so build an expired token
	// by hand via a service with a tiny window.
	service.tokenExp = -time.Minute

	tech := &models.Technician{TechID: "TECH-001", Name: "Sam", SkillLevel: models.SkillJunior}
	token, _ := service.GenerateToken(tech)

	_, err := service.ValidateToken(token)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestService_ValidatePassword(t *testing.T) {
	service := testService()

	assert.NoError(t, service.ValidatePassword("validpassword123"))
	assert.Error(t, service.ValidatePassword("short"))
}
