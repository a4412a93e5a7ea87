package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"hrapp/internal/domain/access"
)

func TestStoreFindUserByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email = $1")).
		WithArgs("john.doe@company.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "role", "first_name", "last_name", "password_hash", "created_at", "updated_at"}).
			AddRow("e1", "john.doe@company.com", "EMPLOYEE", "John", "Doe", "hash", now, now))

	user, err := NewStore(mock).FindUserByEmail(context.Background(), " John.Doe@company.com")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if user.ID != "e1" || user.Role != access.RoleEmployee {
		t.Fatalf("unexpected user %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreFindUserNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := NewStore(mock).FindUserByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStoreSessionLifecycle(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	expires := time.Now().Add(SessionTTL)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (user_id, session_hash, expires_at)")).
		WithArgs("e1", "hash-1", expires).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions")).
		WithArgs("e1", "hash-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET revoked_at = now()")).
		WithArgs("e1", "hash-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := store.CreateSession(context.Background(), "e1", "hash-1", expires); err != nil {
		t.Fatalf("create session: %v", err)
	}
	valid, err := store.SessionValid(context.Background(), "e1", "hash-1")
	if err != nil || !valid {
		t.Fatalf("expected valid session, got %v %v", valid, err)
	}
	if err := store.RevokeSession(context.Background(), "e1", "hash-1"); err != nil {
		t.Fatalf("revoke session: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStorePurgeExpiredSessions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE expires_at <= $1 OR revoked_at IS NOT NULL")).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	deleted, err := NewStore(mock).PurgeExpiredSessions(context.Background(), now)
	if err != nil {
		t.Fatalf("purge error: %v", err)
	}
	if deleted != 4 {
		t.Fatalf("expected 4 deleted sessions, got %d", deleted)
	}
}
