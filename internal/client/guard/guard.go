package guard

import (
	"context"
	"net/http"

	"hrapp/internal/client/auth"
	"hrapp/internal/client/session"
	"hrapp/internal/domain/access"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
)

// StoreFunc opens the session store for one request.
type StoreFunc func(w http.ResponseWriter, r *http.Request) session.Store

// View is what the guard resolves for a protected request.
type View struct {
	Session    session.Context
	Navigation []NavItem
}

type ctxKey struct{}

func FromContext(ctx context.Context) (View, bool) {
	v, ok := ctx.Value(ctxKey{}).(View)
	return v, ok
}

// Protect lets a request through only when a session is stored. Otherwise it
// redirects to the login view without rendering anything. Navigation is
// rebuilt from the stored role on every request.
func Protect(open StoreFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := session.Load(open(w, r))
			if !ok {
				auth.Redirect(w).Navigate(auth.LoginPath)
				return
			}
			view := View{Session: sc, Navigation: Navigation(sc.Role)}
			ctx := session.WithContext(r.Context(), sc)
			ctx = context.WithValue(ctx, ctxKey{}, view)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require rejects requests whose role cannot perform action on target.
// It must run behind Protect.
func Require(action access.Action, target access.Target) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := session.FromContext(r.Context())
			if !ok || !access.Can(sc.Role, action, target) {
				api.Fail(w, http.StatusForbidden, "access_denied", "access denied", requestctx.RequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
