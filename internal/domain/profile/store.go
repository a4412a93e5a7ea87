package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	cryptoutil "hrapp/internal/platform/crypto"
	"hrapp/internal/platform/db"
)

type Store struct {
	DB     db.Querier
	Crypto *cryptoutil.FieldCipher
}

func NewStore(q db.Querier, crypto *cryptoutil.FieldCipher) *Store {
	return &Store{DB: q, Crypto: crypto}
}

const selectProfile = `
    SELECT p.id, p.user_id, p.employee_id, p.first_name, p.last_name,
           p.department, p.position,
           COALESCE(p.manager_id::text, ''),
           COALESCE(m.first_name || ' ' || m.last_name, ''),
           p.hire_date, p.phone,
           p.address_enc, p.emergency_contact_name_enc, p.emergency_contact_phone_enc,
           p.created_at, p.updated_at
    FROM employee_profiles p
    LEFT JOIN employee_profiles m ON m.user_id = p.manager_id
`

func (s *Store) scan(row pgx.Row) (Profile, error) {
	var p Profile
	d := &Detail{}
	var hireDate *time.Time
	var addressEnc, contactNameEnc, contactPhoneEnc []byte
	if err := row.Scan(
		&p.ID, &p.UserID, &p.EmployeeID, &p.FirstName, &p.LastName,
		&p.Department, &p.Position, &p.ManagerID, &p.ManagerName,
		&hireDate, &d.Phone,
		&addressEnc, &contactNameEnc, &contactPhoneEnc,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	if hireDate != nil {
		d.HireDate = hireDate.Format(DateLayout)
	}
	d.Address = s.open(p.ID, addressEnc)
	d.EmergencyContactName = s.open(p.ID, contactNameEnc)
	d.EmergencyContactPhone = s.open(p.ID, contactPhoneEnc)
	p.Detail = d
	return p, nil
}

func (s *Store) open(profileID string, sealed []byte) string {
	value, err := s.Crypto.OpenString(sealed)
	if err != nil {
		slog.Warn("profile field decrypt failed", "profileId", profileID, "err", err)
		return ""
	}
	return value
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, selectProfile+`
    ORDER BY p.last_name, p.first_name, p.id
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Profile, error) {
	return s.scan(s.DB.QueryRow(ctx, selectProfile+"    WHERE p.id = $1", id))
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	return s.scan(s.DB.QueryRow(ctx, selectProfile+"    WHERE p.user_id = $1", userID))
}

func (s *Store) Create(ctx context.Context, p Profile) (string, error) {
	d := p.Detail
	if d == nil {
		d = &Detail{}
	}
	hireDate, err := parseOptionalDate(d.HireDate)
	if err != nil {
		return "", err
	}
	addressEnc, contactNameEnc, contactPhoneEnc, err := s.seal(d.Address, d.EmergencyContactName, d.EmergencyContactPhone)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employee_profiles (
      user_id, employee_id, first_name, last_name, department, position, manager_id,
      hire_date, phone, address_enc, emergency_contact_name_enc, emergency_contact_phone_enc
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, p.UserID, p.EmployeeID, p.FirstName, p.LastName, p.Department, p.Position, nullIfEmpty(p.ManagerID),
		hireDate, d.Phone, addressEnc, contactNameEnc, contactPhoneEnc).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, id string, in Update) error {
	addressEnc, contactNameEnc, contactPhoneEnc, err := s.seal(in.Address, in.EmergencyContactName, in.EmergencyContactPhone)
	if err != nil {
		return err
	}
	keepManager := in.ManagerID == nil
	var managerID any
	if !keepManager {
		managerID = nullIfEmpty(*in.ManagerID)
	}
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employee_profiles
    SET first_name = $1,
        last_name = $2,
        department = $3,
        position = $4,
        hire_date = $5,
        phone = $6,
        address_enc = $7,
        emergency_contact_name_enc = $8,
        emergency_contact_phone_enc = $9,
        manager_id = CASE WHEN $10 THEN manager_id ELSE $11::uuid END,
        updated_at = now()
    WHERE id = $12
  `, in.FirstName, in.LastName, in.Department, in.Position, in.HireDate, in.Phone,
		addressEnc, contactNameEnc, contactPhoneEnc, keepManager, managerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE id = $1", userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) seal(address, contactName, contactPhone string) ([]byte, []byte, []byte, error) {
	addressEnc, err := s.Crypto.SealString(address)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("seal address: %w", err)
	}
	contactNameEnc, err := s.Crypto.SealString(contactName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("seal emergency contact name: %w", err)
	}
	contactPhoneEnc, err := s.Crypto.SealString(contactPhone)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("seal emergency contact phone: %w", err)
	}
	return addressEnc, contactNameEnc, contactPhoneEnc, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", value, err)
	}
	return &parsed, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
