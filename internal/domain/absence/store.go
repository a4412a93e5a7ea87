package absence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"hrapp/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const selectRequest = `
    SELECT r.id, r.employee_id,
           COALESCE(ep.first_name || ' ' || ep.last_name, ''),
           u.email,
           r.start_date, r.end_date, r.reason, r.status,
           COALESCE(r.approved_by::text, ''),
           COALESCE(ap.first_name || ' ' || ap.last_name, ''),
           r.requested_at, r.approved_at, r.comments
    FROM absence_requests r
    JOIN users u ON u.id = r.employee_id
    LEFT JOIN employee_profiles ep ON ep.user_id = r.employee_id
    LEFT JOIN employee_profiles ap ON ap.user_id = r.approved_by
`

func scanRequest(row pgx.Row) (Request, error) {
	var out Request
	var start, end time.Time
	var status string
	if err := row.Scan(
		&out.ID, &out.EmployeeID, &out.EmployeeName, &out.EmployeeEmail,
		&start, &end, &out.Reason, &status,
		&out.ApprovedBy, &out.ApprovedByName,
		&out.RequestedAt, &out.ApprovedAt, &out.Comments,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrRequestNotFound
		}
		return Request{}, err
	}
	out.Status = Status(status)
	out.StartDate = start.Format(DateLayout)
	out.EndDate = end.Format(DateLayout)
	out.Days, _ = CalculateDays(start, end)
	return out, nil
}

func (s *Store) Create(ctx context.Context, employeeID string, in NewRequest) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO absence_requests (employee_id, start_date, end_date, reason, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, employeeID, in.StartDate, in.EndDate, strings.TrimSpace(in.Reason), string(StatusPending)).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, selectRequest+"    WHERE r.id = $1", id))
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Request, error) {
	query := selectRequest + "    WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND r.employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	query += " ORDER BY r.requested_at DESC, r.id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Decide moves a pending request to its terminal status. A request that left
// PENDING concurrently is reported as ErrInvalidStatus.
func (s *Store) Decide(ctx context.Context, id, approverID string, d Decision) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE absence_requests
    SET status = $1, approved_by = $2, approved_at = now(), comments = $3, updated_at = now()
    WHERE id = $4 AND status = $5
  `, string(d.Status), approverID, strings.TrimSpace(d.Comments), id, string(StatusPending))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidStatus
	}
	return nil
}

func (s *Store) DeletePending(ctx context.Context, id, employeeID string) error {
	cmd, err := s.DB.Exec(ctx, `
    DELETE FROM absence_requests
    WHERE id = $1 AND employee_id = $2 AND status = $3
  `, id, employeeID, string(StatusPending))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidStatus
	}
	return nil
}
