package models

// LoginRequest represents a technician login request.
type LoginRequest struct {
	TechID   string `json:"tech_id"`
	Password string `json:"password"`
}

// RegisterRequest represents a technician registration request.
type RegisterRequest struct {
	TechID     string     `json:"tech_id"`
	Name       string     `json:"name"`
	SkillLevel SkillLevel `json:"skill_level"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Password   string     `json:"password"`
}

// LoginResponse represents a successful login response.
type LoginResponse struct {
	Token      string     `json:"token"`
	Technician Technician `json:"technician"`
}

// Claims represents JWT claims for an authenticated technician.
type Claims struct {
	TechID     string     `json:"tech_id"`
	Name       string     `json:"name"`
	SkillLevel SkillLevel `json:"skill_level"`
	Exp        int64      `json:"exp"`
}
