package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrapp/internal/client/backend"
	"hrapp/internal/client/session"
	"hrapp/internal/domain/access"
	"hrapp/internal/transport/http/api"
)

type fakeBackend struct {
	result    backend.LoginResult
	loginErr  error
	logoutErr error
	revoked   []string
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (backend.LoginResult, error) {
	return f.result, f.loginErr
}

func (f *fakeBackend) Logout(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.logoutErr
}

func TestLoginStoresServerRole(t *testing.T) {
	b := &fakeBackend{result: backend.LoginResult{Token: "tok", UserID: "m1", Role: "MANAGER"}}
	store := session.NewMemoryStore()
	c := New(b, store, nil)

	s, err := c.Login(context.Background(), "manager@company.com", "password")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if s.Role != access.RoleManager || s.Token != "tok" {
		t.Fatalf("unexpected session %+v", s)
	}
	if !c.IsAuthenticated() || !c.IsManager() {
		t.Fatal("expected authenticated manager")
	}
	if id, ok := c.CurrentUserID(); !ok || id != "m1" {
		t.Fatalf("unexpected user id %q %v", id, ok)
	}
}

func TestLoginFailureKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "rejected", err: &backend.APIError{Status: http.StatusUnauthorized, Code: "invalid_credentials"}, want: InvalidCredentials},
		{name: "unreachable", err: fmt.Errorf("%w: dial", backend.ErrTransport), want: NetworkFailure},
		{name: "server error", err: &backend.APIError{Status: http.StatusInternalServerError, Code: "internal_error"}, want: NetworkFailure},
		{name: "malformed credentials", err: &backend.APIError{Status: http.StatusBadRequest, Code: "validation_error"}, want: InvalidCredentials},
		{name: "throttled", err: &backend.APIError{Status: http.StatusTooManyRequests, Code: "rate_limited"}, want: InvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			store.Set(session.Session{Token: "old", Role: access.RoleEmployee, UserID: "e1"})
			c := New(&fakeBackend{loginErr: tc.err}, store, nil)

			_, err := c.Login(context.Background(), "john.doe@company.com", "nope")
			var authErr *AuthError
			if !errors.As(err, &authErr) || authErr.Kind != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
			if token, _ := store.Token(); token != "old" {
				t.Fatal("failed login must not replace the existing session")
			}
		})
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	c := New(&fakeBackend{result: backend.LoginResult{Token: "tok", Role: "ADMIN"}}, session.NewMemoryStore(), nil)
	if _, err := c.Login(context.Background(), "a@b.c", "x"); KindOf(err) != NetworkFailure {
		t.Fatalf("expected network failure for unknown role, got %v", err)
	}
	if c.IsAuthenticated() {
		t.Fatal("expected no session")
	}
}

func TestLogoutClearsAndNavigates(t *testing.T) {
	b := &fakeBackend{logoutErr: errors.New("boom")}
	store := session.NewMemoryStore()
	store.Set(session.Session{Token: "tok", Role: access.RoleEmployee, UserID: "e1"})
	var navigated string
	c := New(b, store, NavigatorFunc(func(path string) { navigated = path }))

	c.Logout(context.Background())

	if c.IsAuthenticated() {
		t.Fatal("expected logged out")
	}
	if navigated != LoginPath {
		t.Fatalf("expected navigation to %s, got %q", LoginPath, navigated)
	}
	if len(b.revoked) != 1 || b.revoked[0] != "tok" {
		t.Fatalf("expected revoke attempt, got %v", b.revoked)
	}

	c.Logout(context.Background())
	if len(b.revoked) != 1 {
		t.Fatal("logout without a session must not call the backend")
	}
	if navigated != LoginPath {
		t.Fatal("logout must always navigate")
	}
}

func TestRedirectNavigatorWritesEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Redirect(rec).Navigate(LoginPath)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath || rec.Body.Len() != 0 {
		t.Fatalf("unexpected redirect %d %q %q", rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
}

func TestLoginAgainstHTTPBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			api.Success(w, backend.LoginResult{Token: "tok", UserID: "e1", Email: "john.doe@company.com", Role: "EMPLOYEE"}, "")
		case "/api/auth/logout":
			api.Success(w, map[string]string{"status": "logged_out"}, "")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	c := New(backend.New(srv.URL, time.Second), store, nil)
	if _, err := c.Login(context.Background(), "john.doe@company.com", "password"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	if role, ok := c.CurrentRole(); !ok || role != access.RoleEmployee {
		t.Fatalf("unexpected role %q %v", role, ok)
	}
	if c.IsManager() {
		t.Fatal("employee must not be manager")
	}
	c.Logout(context.Background())
	if c.IsAuthenticated() {
		t.Fatal("expected logged out")
	}
}
