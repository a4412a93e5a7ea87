package feedback

import (
	"context"

	"hrapp/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) Create(ctx context.Context, f Feedback) (Feedback, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO feedback (profile_id, author_id, content, polished_content)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, f.ProfileID, f.FeedbackBy, f.FeedbackText, f.PolishedFeedback).Scan(&f.ID, &f.CreatedAt)
	return f, err
}

func (s *Store) ListByProfile(ctx context.Context, profileID string) ([]Feedback, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT f.id, f.profile_id, f.author_id, COALESCE(ap.first_name || ' ' || ap.last_name, ''),
           f.content, f.polished_content, f.created_at
    FROM feedback f
    LEFT JOIN employee_profiles ap ON ap.user_id = f.author_id
    WHERE f.profile_id = $1
    ORDER BY f.created_at DESC
  `, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Feedback{}
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.ProfileID, &f.FeedbackBy, &f.AuthorName, &f.FeedbackText, &f.PolishedFeedback, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
