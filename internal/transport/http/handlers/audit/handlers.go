package audithandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/domain/access"
	"hrapp/internal/domain/audit"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
	"hrapp/internal/transport/http/middleware"
	"hrapp/internal/transport/http/shared"
)

type Service interface {
	Count(ctx context.Context, filter audit.Filter) (int, error)
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit-events", h.HandleList)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.RequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := user.Principal().Require(access.ActionViewAuditLog, ""); err != nil {
		writeError(w, r, err)
		return
	}

	page := shared.ParsePagination(r, 100, 500)
	query := r.URL.Query()
	filter := audit.Filter{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		ActorUser:  query.Get("actorUserId"),
	}
	includeDetails := query.Get("includeDetails") == "true"

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		slog.Warn("audit count failed", "requestId", requestID, "err", err)
	}
	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, requestID)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.RequestID(r.Context())
	if errors.Is(err, access.ErrDenied) {
		api.Fail(w, http.StatusForbidden, "access_denied", "access denied", requestID)
		return
	}
	slog.Error("audit request failed", "requestId", requestID, "path", r.URL.Path, "err", err)
	api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
}
