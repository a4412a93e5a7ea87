package profile

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	cryptoutil "hrapp/internal/platform/crypto"
)

var profileColumns = []string{
	"id", "user_id", "employee_id", "first_name", "last_name", "department", "position",
	"manager_id", "manager_name", "hire_date", "phone",
	"address_enc", "emergency_contact_name_enc", "emergency_contact_phone_enc",
	"created_at", "updated_at",
}

func TestStoreGetDecryptsSensitiveFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	cipher, err := cryptoutil.New("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	if err != nil {
		t.Fatalf("cipher error: %v", err)
	}
	address, _ := cipher.SealString("1 Elm Street")
	contact, _ := cipher.SealString("Mary Doe")

	hire := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
		WithArgs("p-e1").
		WillReturnRows(pgxmock.NewRows(profileColumns).
			AddRow("p-e1", "e1", "EMP002", "John", "Doe", "Engineering", "Developer",
				"m1", "Morgan Manager", &hire, "555-0002",
				address, contact, []byte(nil), now, now))

	p, err := NewStore(mock, cipher).Get(context.Background(), "p-e1")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if p.ManagerName != "Morgan Manager" {
		t.Fatalf("unexpected manager name %q", p.ManagerName)
	}
	if p.Detail == nil || p.Address != "1 Elm Street" || p.EmergencyContactName != "Mary Doe" {
		t.Fatalf("unexpected detail %+v", p.Detail)
	}
	if p.HireDate != "2021-03-15" {
		t.Fatalf("unexpected hire date %q", p.HireDate)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.user_id = $1")).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	if _, err := NewStore(mock, nil).GetByUserID(context.Background(), "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestStoreUpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employee_profiles")).
		WithArgs("A", "B", "", "", pgxmock.AnyArg(), "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			true, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewStore(mock, nil).Update(context.Background(), "missing", Update{FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
