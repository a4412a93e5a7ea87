package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByID(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, user User) (string, error)
	CreateSession(ctx context.Context, userID, sessionHash string, expires time.Time) error
	RevokeSession(ctx context.Context, userID, sessionHash string) error
	SessionValid(ctx context.Context, userID, sessionHash string) (bool, error)
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

var _ StoreAPI = (*Store)(nil)
