package profilehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/domain/access"
	"hrapp/internal/domain/audit"
	"hrapp/internal/domain/profile"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
	"hrapp/internal/transport/http/middleware"
	"hrapp/internal/transport/http/shared"
)

type Service interface {
	ListBasic(ctx context.Context, actor access.Principal, limit, offset int) ([]profile.Profile, error)
	ListDetailed(ctx context.Context, actor access.Principal, limit, offset int) ([]profile.Profile, error)
	GetBasic(ctx context.Context, actor access.Principal, id string) (profile.Profile, error)
	GetDetailed(ctx context.Context, actor access.Principal, id string) (profile.Profile, error)
	Mine(ctx context.Context, actor access.Principal) (profile.Profile, error)
	Update(ctx context.Context, actor access.Principal, id string, in profile.Update) (profile.Profile, error)
}

type Handler struct {
	Service Service
	Audit   shared.Auditor
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

type updateRequest struct {
	FirstName             string  `json:"firstName" validate:"required,max=100"`
	LastName              string  `json:"lastName" validate:"required,max=100"`
	Department            string  `json:"department" validate:"max=100"`
	Position              string  `json:"position" validate:"max=100"`
	HireDate              string  `json:"hireDate"`
	Phone                 string  `json:"phone" validate:"max=50"`
	Address               string  `json:"address" validate:"max=500"`
	EmergencyContactName  string  `json:"emergencyContactName" validate:"max=200"`
	EmergencyContactPhone string  `json:"emergencyContactPhone" validate:"max=50"`
	ManagerID             *string `json:"managerId" validate:"omitempty,len=0|uuid"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles/basic", h.HandleListBasic)
	r.Get("/profiles/detailed", h.HandleListDetailed)
	r.Get("/profiles/me", h.HandleMine)
	r.Get("/profiles/{id}/basic", h.HandleGetBasic)
	r.Get("/profiles/{id}/detailed", h.HandleGetDetailed)
	r.Put("/profiles/{id}", h.HandleUpdate)
}

func actor(r *http.Request) access.Principal {
	user, _ := middleware.GetUser(r.Context())
	return user.Principal()
}

func (h *Handler) HandleListBasic(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	out, err := h.Service.ListBasic(r.Context(), actor(r), page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleListDetailed(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	out, err := h.Service.ListDetailed(r.Context(), actor(r), page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Mine(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

// profileID returns the {id} path parameter, answering 404 when it cannot name a profile.
func profileID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !shared.ValidID(id) {
		writeError(w, r, profile.ErrProfileNotFound)
		return "", false
	}
	return id, true
}

func (h *Handler) HandleGetBasic(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	out, err := h.Service.GetBasic(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleGetDetailed(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	out, err := h.Service.GetDetailed(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.RequestID(r.Context())
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	var payload updateRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	in := profile.Update{
		FirstName:             strings.TrimSpace(payload.FirstName),
		LastName:              strings.TrimSpace(payload.LastName),
		Department:            strings.TrimSpace(payload.Department),
		Position:              strings.TrimSpace(payload.Position),
		Phone:                 strings.TrimSpace(payload.Phone),
		Address:               strings.TrimSpace(payload.Address),
		EmergencyContactName:  strings.TrimSpace(payload.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(payload.EmergencyContactPhone),
		ManagerID:             payload.ManagerID,
	}
	if strings.TrimSpace(payload.HireDate) != "" {
		if hire, ok := v.Date("hireDate", payload.HireDate); ok {
			in.HireDate = &hire
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	principal := actor(r)
	out, err := h.Service.Update(r.Context(), principal, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, principal.UserID, audit.ActionProfileUpdate, audit.EntityProfile, out.ID,
		map[string]any{"managerId": out.ManagerID, "managerChanged": payload.ManagerID != nil})
	api.Success(w, out, requestID)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.RequestID(r.Context())
	switch {
	case errors.Is(err, access.ErrDenied):
		api.Fail(w, http.StatusForbidden, "access_denied", "access denied", requestID)
	case errors.Is(err, profile.ErrProfileNotFound):
		api.Fail(w, http.StatusNotFound, "profile_not_found", "profile not found", requestID)
	case errors.Is(err, profile.ErrManagerNotFound):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "managerId", Reason: "must reference an existing user other than the profile owner"}})
	default:
		slog.Error("profile request failed", "requestId", requestID, "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
	}
}
