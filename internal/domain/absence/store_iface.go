package absence

import "context"

type StoreAPI interface {
	Create(ctx context.Context, employeeID string, in NewRequest) (string, error)
	Get(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter Filter) ([]Request, error)
	Decide(ctx context.Context, id, approverID string, d Decision) error
	DeletePending(ctx context.Context, id, employeeID string) error
}

var _ StoreAPI = (*Store)(nil)
