package feedbackhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/domain/access"
	"hrapp/internal/domain/audit"
	"hrapp/internal/domain/feedback"
	"hrapp/internal/domain/profile"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
	"hrapp/internal/transport/http/middleware"
	"hrapp/internal/transport/http/shared"
)

type Service interface {
	Leave(ctx context.Context, actor access.Principal, profileID, text string) (feedback.Feedback, error)
	List(ctx context.Context, actor access.Principal, profileID string) ([]feedback.Feedback, error)
}

type Handler struct {
	Service Service
	Audit   shared.Auditor
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

type createRequest struct {
	FeedbackText string `json:"feedbackText" validate:"required,max=4000"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles/{id}/feedback", h.HandleList)
	r.Post("/profiles/{id}/feedback", h.HandleCreate)
}

func profileID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !shared.ValidID(id) {
		writeError(w, r, profile.ErrProfileNotFound)
		return "", false
	}
	return id, true
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	out, err := h.Service.List(r.Context(), user.Principal(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.RequestID(r.Context())
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	user, _ := middleware.GetUser(r.Context())
	out, err := h.Service.Leave(r.Context(), user.Principal(), id, payload.FeedbackText)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionFeedbackCreate, audit.EntityFeedback, out.ID,
		map[string]any{"profileId": out.ProfileID})
	api.Created(w, out, requestID)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.RequestID(r.Context())
	switch {
	case errors.Is(err, access.ErrDenied):
		api.Fail(w, http.StatusForbidden, "access_denied", "access denied", requestID)
	case errors.Is(err, profile.ErrProfileNotFound):
		api.Fail(w, http.StatusNotFound, "profile_not_found", "profile not found", requestID)
	case errors.Is(err, feedback.ErrEmptyFeedback):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "feedbackText", Reason: "is required"}})
	default:
		slog.Error("feedback request failed", "requestId", requestID, "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
	}
}
