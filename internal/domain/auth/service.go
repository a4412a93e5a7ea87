package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrapp/internal/domain/access"
)

type Service struct {
	Store  StoreAPI
	Secret string
}

func NewService(store StoreAPI, secret string) *Service {
	return &Service{Store: store, Secret: secret}
}

// Login verifies the credentials, opens a server-side session and signs a token
// for it. Unknown emails and wrong passwords are indistinguishable to callers.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := s.Store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !user.Role.Valid() {
		return LoginResult{}, fmt.Errorf("user %s has invalid role %q", user.ID, user.Role)
	}

	sessionID := NewSessionID()
	if err := s.Store.CreateSession(ctx, user.ID, HashToken(sessionID), time.Now().Add(SessionTTL)); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}
	token, err := GenerateToken(s.Secret, Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		SessionID: sessionID,
	}, SessionTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	return LoginResult{Token: token, UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// Authenticate resolves a bearer token to the acting user. The session row is
// consulted only when a store is configured.
func (s *Service) Authenticate(ctx context.Context, token string) (UserContext, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return UserContext{}, err
	}
	role, ok := access.ParseRole(claims.Role)
	if !ok || claims.UserID == "" {
		return UserContext{}, ErrInvalidToken
	}
	if s.Store != nil {
		valid, err := s.Store.SessionValid(ctx, claims.UserID, HashToken(claims.SessionID))
		if err != nil {
			return UserContext{}, fmt.Errorf("check session: %w", err)
		}
		if !valid {
			return UserContext{}, ErrSessionExpired
		}
	}
	return UserContext{UserID: claims.UserID, Email: claims.Email, Role: role, SessionID: claims.SessionID}, nil
}

func (s *Service) Logout(ctx context.Context, user UserContext) error {
	if user.SessionID == "" {
		return nil
	}
	return s.Store.RevokeSession(ctx, user.UserID, HashToken(user.SessionID))
}
