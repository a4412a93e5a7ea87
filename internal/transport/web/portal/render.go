package portal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"hrapp/internal/client/auth"
	"hrapp/internal/client/backend"
	"hrapp/internal/client/guard"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
)

type sessionView struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// page is the body of every portal view.
type page struct {
	View       string          `json:"view"`
	Session    *sessionView    `json:"session,omitempty"`
	Navigation []guard.NavItem `json:"navigation"`
	Actions    []string        `json:"actions"`
	Data       any             `json:"data,omitempty"`
}

func newPage(view guard.View, name string, actions []string, data any) page {
	if actions == nil {
		actions = []string{}
	}
	return page{
		View:       name,
		Session:    &sessionView{UserID: view.Session.UserID, Role: string(view.Session.Role)},
		Navigation: view.Navigation,
		Actions:    actions,
		Data:       data,
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, p page) {
	api.WriteJSON(w, status, api.Envelope{Success: true, Data: p, RequestID: requestctx.RequestID(r.Context())})
}

func denied(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusForbidden, "access_denied", "access denied", requestctx.RequestID(r.Context()))
}

// writeBackendError maps API failures onto the portal. A rejected token ends
// the stored session.
func (h *Handler) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.RequestID(r.Context())
	var apiErr *backend.APIError
	switch {
	case backend.IsUnauthorized(err):
		h.store(w, r).Clear()
		auth.Redirect(w).Navigate(auth.LoginPath)
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		api.Fail(w, apiErr.Status, apiErr.Code, apiErr.Message, requestID)
	case errors.Is(err, backend.ErrTransport):
		slog.Warn("backend unreachable", "requestId", requestID, "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusBadGateway, "network_failure", "unable to reach the server, please try again", requestID)
	default:
		slog.Error("portal request failed", "requestId", requestID, "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusBadGateway, "backend_error", "the server could not complete the request", requestID)
	}
}

func writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.RequestID(r.Context())
	switch {
	case backend.StatusOf(err) == http.StatusTooManyRequests:
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many login attempts, please wait and try again", requestID)
	case auth.KindOf(err) == auth.InvalidCredentials:
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
	default:
		slog.Warn("login failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusBadGateway, "network_failure", "unable to reach the server, please try again", requestID)
	}
}

// readInput accepts a JSON object of strings or a urlencoded form.
func readInput(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	requestID := requestctx.RequestID(r.Context())
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		out := map[string]string{}
		if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return nil, false
		}
		return trimAll(out), true
	}
	if err := r.ParseForm(); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return nil, false
	}
	out := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		out[key] = r.PostForm.Get(key)
	}
	return trimAll(out), true
}

// trimAll trims every value except the password.
func trimAll(in map[string]string) map[string]string {
	for key, value := range in {
		if key == "password" {
			continue
		}
		in[key] = strings.TrimSpace(value)
	}
	return in
}
