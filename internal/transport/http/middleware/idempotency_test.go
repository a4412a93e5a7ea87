package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func TestIdempotencyCheckReplaysAndConflicts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	stored := json.RawMessage(`{"id":"r1"}`)
	query := regexp.QuoteMeta("FROM idempotency_keys")
	mock.ExpectQuery(query).WithArgs("u1", "k1", "absence.create").
		WillReturnRows(pgxmock.NewRows([]string{"request_hash", "response_json"}).AddRow("h1", stored))
	mock.ExpectQuery(query).WithArgs("u1", "k1", "absence.create").
		WillReturnRows(pgxmock.NewRows([]string{"request_hash", "response_json"}).AddRow("h1", stored))

	s := NewIdempotencyStore(mock)
	got, found, err := s.Check(context.Background(), "u1", "absence.create", "k1", "h1")
	if err != nil || !found || string(got) != `{"id":"r1"}` {
		t.Fatalf("expected replay, got %s %v %v", got, found, err)
	}
	if _, _, err := s.Check(context.Background(), "u1", "absence.create", "k1", "h2"); !errors.Is(err, ErrIdempotencyConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestIdempotencySkippedWithoutKey(t *testing.T) {
	s := NewIdempotencyStore(nil)
	if _, found, err := s.Check(context.Background(), "u1", "absence.create", "", "h1"); found || err != nil {
		t.Fatalf("expected no-op, got %v %v", found, err)
	}
	if err := s.Save(context.Background(), "u1", "absence.create", "", "h1", nil); err != nil {
		t.Fatalf("expected no-op save, got %v", err)
	}
}
