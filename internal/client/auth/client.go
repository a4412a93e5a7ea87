package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"hrapp/internal/client/backend"
	"hrapp/internal/client/session"
	"hrapp/internal/domain/access"
)

const LoginPath = "/login"

type Backend interface {
	Login(ctx context.Context, email, password string) (backend.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Redirect navigates by answering the request with a 303 and an empty body.
func Redirect(w http.ResponseWriter) Navigator {
	return NavigatorFunc(func(path string) {
		w.Header().Set("Location", path)
		w.WriteHeader(http.StatusSeeOther)
	})
}

type Client struct {
	backend Backend
	store   session.Store
	nav     Navigator
}

func New(b Backend, store session.Store, nav Navigator) *Client {
	return &Client{backend: b, store: store, nav: nav}
}

// Login exchanges credentials for a session and stores it. The role comes
// from the backend response. A failed attempt leaves any existing session
// untouched.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	res, err := c.backend.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, &AuthError{Kind: loginFailureKind(err), Err: err}
	}
	role, ok := access.ParseRole(res.Role)
	if !ok || res.Token == "" {
		return session.Session{}, &AuthError{Kind: NetworkFailure, Err: fmt.Errorf("unexpected login response role %q", res.Role)}
	}

	s := session.Session{Token: res.Token, Role: role, UserID: res.UserID}
	c.store.Set(s)
	return s, nil
}

// loginFailureKind sorts a failed login. Any 4xx answer is the backend
// rejecting the attempt; no answer or a 5xx is a network failure.
func loginFailureKind(err error) Kind {
	if status := backend.StatusOf(err); status >= 400 && status < 500 {
		return InvalidCredentials
	}
	return NetworkFailure
}

// Logout clears the stored session and navigates to the login view. The
// server-side revoke is attempted but never blocks the logout.
func (c *Client) Logout(ctx context.Context) {
	token, hasToken := c.store.Token()
	c.store.Clear()
	if hasToken {
		if err := c.backend.Logout(ctx, token); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("session revoke failed", "error", err)
		}
	}
	if c.nav != nil {
		c.nav.Navigate(LoginPath)
	}
}

func (c *Client) IsAuthenticated() bool {
	_, ok := session.Load(c.store)
	return ok
}

func (c *Client) IsManager() bool {
	role, ok := c.CurrentRole()
	return ok && role == access.RoleManager
}

func (c *Client) CurrentRole() (access.Role, bool) {
	sc, ok := session.Load(c.store)
	if !ok {
		return access.RoleNone, false
	}
	return sc.Role, true
}

func (c *Client) CurrentUserID() (string, bool) {
	if _, ok := session.Load(c.store); !ok {
		return "", false
	}
	return c.store.UserID()
}
