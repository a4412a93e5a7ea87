package session

import (
	"context"
	"time"

	"hrapp/internal/domain/access"
)

// TTL is how long a stored session survives after Set.
const TTL = 24 * time.Hour

type Session struct {
	Token  string
	Role   access.Role
	UserID string
}

// Store persists the signed-in user's session. Every getter reports absence
// explicitly through its second return value.
type Store interface {
	Set(s Session)
	Clear()
	Token() (string, bool)
	Role() (access.Role, bool)
	UserID() (string, bool)
}

// Context is the session as resolved for one request. Views read it instead
// of reaching into storage.
type Context struct {
	Token  string
	Role   access.Role
	UserID string
}

func (c Context) Principal() access.Principal {
	return access.Principal{UserID: c.UserID, Role: c.Role}
}

func (c Context) IsManager() bool {
	return c.Role == access.RoleManager
}

// Load resolves a Context from s. A token without a recognised role is not a
// session.
func Load(s Store) (Context, bool) {
	token, ok := s.Token()
	if !ok {
		return Context{}, false
	}
	role, ok := s.Role()
	if !ok || !role.Valid() {
		return Context{}, false
	}
	userID, _ := s.UserID()
	return Context{Token: token, Role: role, UserID: userID}, true
}

type ctxKey struct{}

func WithContext(ctx context.Context, sc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

func FromContext(ctx context.Context) (Context, bool) {
	sc, ok := ctx.Value(ctxKey{}).(Context)
	return sc, ok
}
