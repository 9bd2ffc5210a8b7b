package dto

import (
	"time"

	"tersys/internal/authz"
)

type LoginDTO struct {
	Username string `json:"username" validate:"max=50"`
	Password string `json:"password" validate:"max=72"`
}

type SessionDTO struct {
	Token     string     `json:"token,omitempty"`
	ExpiresAt time.Time  `json:"expires_at,omitempty"`
	Username  string     `json:"username"`
	Role      authz.Role `json:"role"`
}
