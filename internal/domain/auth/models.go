package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrapp/internal/domain/access"
)

// SessionTTL is the lifetime of both the signed token and its server-side session row.
const SessionTTL = 24 * time.Hour

type User struct {
	ID           string
	Email        string
	Role         access.Role
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserContext struct {
	UserID    string
	Email     string
	Role      access.Role
	SessionID string
}

func (u UserContext) Principal() access.Principal {
	return access.Principal{UserID: u.UserID, Role: u.Role}
}

type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token  string      `json:"token"`
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   access.Role `json:"role"`
}
