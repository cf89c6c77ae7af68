// README: Mock traveler accounts (register, login, session tokens). Not a real identity provider.
package account

import (
	"errors"
	"strings"
	"time"

	"travelplanner/internal/types"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrBadRequest         = errors.New("bad request")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid session token")
)

// Demo account seeded when PLANNER_SEED_DEMO_USER is on.
const (
	DemoEmail    = "test@example.com"
	DemoPassword = "password123"
	DemoName     = "Test User"
)

const minPasswordLen = 6

type User struct {
	ID           types.ID  `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by Register and Login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
