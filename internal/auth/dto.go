package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendalink/backend/pkg/db/models"
	"github.com/tiendalink/backend/pkg/enums"
)

// UserDTO exposes safe account data in API responses.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// TokenPair is returned after login, registration, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session bundles the signed-in user with their tokens.
type Session struct {
	User   UserDTO   `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

func userFromModel(m *models.User) UserDTO {
	return UserDTO{
		ID:        m.ID,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
