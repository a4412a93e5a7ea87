package profile

import "context"

type StoreAPI interface {
	List(ctx context.Context, limit, offset int) ([]Profile, error)
	Get(ctx context.Context, id string) (Profile, error)
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	Create(ctx context.Context, p Profile) (string, error)
	Update(ctx context.Context, id string, in Update) error
	UserExists(ctx context.Context, userID string) (bool, error)
}

var _ StoreAPI = (*Store)(nil)
