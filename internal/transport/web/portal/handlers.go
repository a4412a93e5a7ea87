package portal

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/client/auth"
	"hrapp/internal/client/backend"
	"hrapp/internal/client/guard"
	"hrapp/internal/client/session"
	"hrapp/internal/domain/absence"
	"hrapp/internal/domain/access"
	"hrapp/internal/domain/feedback"
	"hrapp/internal/domain/profile"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/shared"
)

type Backend interface {
	auth.Backend
	MyProfile(ctx context.Context, token string) (profile.Profile, error)
	ListProfiles(ctx context.Context, token string, detailed bool) ([]profile.Profile, error)
	GetProfile(ctx context.Context, token, id string, detailed bool) (profile.Profile, error)
	UpdateProfile(ctx context.Context, token, id string, in backend.ProfileUpdate) (profile.Profile, error)
	ListFeedback(ctx context.Context, token, profileID string) ([]feedback.Feedback, error)
	LeaveFeedback(ctx context.Context, token, profileID, text string) (feedback.Feedback, error)
	MyRequests(ctx context.Context, token string) ([]absence.Request, error)
	AllRequests(ctx context.Context, token string) ([]absence.Request, error)
	PendingRequests(ctx context.Context, token string) ([]absence.Request, error)
	CreateRequest(ctx context.Context, token string, in backend.NewAbsenceRequest) (absence.Request, error)
	DecideRequest(ctx context.Context, token, id string, d backend.Decision) (absence.Request, error)
}

// Handler serves the role-aware portal views on top of the API.
type Handler struct {
	Backend      Backend
	CookieSecure bool
}

func NewHandler(b Backend, cookieSecure bool) *Handler {
	return &Handler{Backend: b, CookieSecure: cookieSecure}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.HandleLoginView)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(guard.Protect(h.store))

		r.Get("/", h.HandleDashboard)
		r.Get("/profile/me", h.HandleMyProfile)
		r.Get("/profiles", h.HandleProfiles)
		r.Get("/profiles/{id}/basic", h.HandleProfileBasic)
		r.Get("/profiles/{id}/detailed", h.HandleProfileDetailed)
		r.Post("/profiles/{id}", h.HandleUpdateProfile)
		r.Post("/profiles/{id}/feedback", h.HandleLeaveFeedback)

		r.Get("/absence-requests", h.HandleRequests)
		r.Get("/absence-requests/new", h.HandleNewRequestView)
		r.Post("/absence-requests/new", h.HandleCreateRequest)
		r.With(guard.Require(access.ActionViewPendingRequests, access.Other)).
			Get("/absence-requests/pending", h.HandlePending)
		r.With(guard.Require(access.ActionDecideRequest, access.Other)).
			Post("/absence-requests/{id}/decision", h.HandleDecide)
	})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) session.Store {
	return session.NewCookieStore(w, r, h.CookieSecure)
}

func (h *Handler) authClient(w http.ResponseWriter, r *http.Request) *auth.Client {
	return auth.New(h.Backend, h.store(w, r), auth.Redirect(w))
}

func (h *Handler) HandleLoginView(w http.ResponseWriter, r *http.Request) {
	if h.authClient(w, r).IsAuthenticated() {
		auth.Redirect(w).Navigate("/")
		return
	}
	render(w, r, http.StatusOK, page{
		View:       "login",
		Navigation: []guard.NavItem{},
		Actions:    []string{},
		Data: map[string]any{
			"fields": []string{"email", "password"},
		},
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.RequestID(r.Context())
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	v := shared.NewValidator()
	v.Required("email", in["email"], "is required")
	v.Required("password", in["password"], "is required")
	if v.Reject(w, requestID) {
		return
	}

	client := h.authClient(w, r)
	if _, err := client.Login(r.Context(), in["email"], in["password"]); err != nil {
		writeLoginError(w, r, err)
		return
	}
	auth.Redirect(w).Navigate("/")
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.authClient(w, r).Logout(r.Context())
}

func current(r *http.Request) (guard.View, session.Context) {
	view, _ := guard.FromContext(r.Context())
	return view, view.Session
}
