package feedback

import "context"

type StoreAPI interface {
	Create(ctx context.Context, f Feedback) (Feedback, error)
	ListByProfile(ctx context.Context, profileID string) ([]Feedback, error)
}

var _ StoreAPI = (*Store)(nil)
