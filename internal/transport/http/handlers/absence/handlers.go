package absencehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/domain/absence"
	"hrapp/internal/domain/access"
	"hrapp/internal/domain/audit"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
	"hrapp/internal/transport/http/middleware"
	"hrapp/internal/transport/http/shared"
)

const createEndpoint = "absence.create"

type Service interface {
	Create(ctx context.Context, actor access.Principal, in absence.NewRequest) (absence.Request, error)
	Mine(ctx context.Context, actor access.Principal) ([]absence.Request, error)
	All(ctx context.Context, actor access.Principal, limit, offset int) ([]absence.Request, error)
	Pending(ctx context.Context, actor access.Principal) ([]absence.Request, error)
	Get(ctx context.Context, actor access.Principal, id string) (absence.Request, error)
	Decide(ctx context.Context, actor access.Principal, id string, d absence.Decision) (absence.Request, error)
	Cancel(ctx context.Context, actor access.Principal, id string) error
	Export(ctx context.Context, actor access.Principal, status absence.Status, w io.Writer) error
}

// Idempotency replays earlier create responses for a repeated Idempotency-Key.
type Idempotency interface {
	Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error
}

type Handler struct {
	Service     Service
	Idempotency Idempotency
	Audit       shared.Auditor
}

func NewHandler(service Service, idempotency Idempotency) *Handler {
	return &Handler{Service: service, Idempotency: idempotency}
}

type createRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"max=1000"`
}

type decisionRequest struct {
	Status   string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Comments string `json:"comments" validate:"max=1000"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/absence-requests", h.HandleCreate)
	r.Get("/absence-requests/my", h.HandleMine)
	r.Get("/absence-requests/all", h.HandleAll)
	r.Get("/absence-requests/pending", h.HandlePending)
	r.Get("/absence-requests/export.pdf", h.HandleExport)
	r.Get("/absence-requests/{id}", h.HandleGet)
	r.Put("/absence-requests/{id}/approve", h.HandleDecide)
	r.Delete("/absence-requests/{id}", h.HandleCancel)
}

func actor(r *http.Request) access.Principal {
	user, _ := middleware.GetUser(r.Context())
	return user.Principal()
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.RequestID(r.Context())
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	principal := actor(r)
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(raw)
	if h.Idempotency != nil && key != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), principal.UserID, createEndpoint, key, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", requestID)
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		if found {
			api.Created(w, stored, requestID)
			return
		}
	}

	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Create(r.Context(), principal, absence.NewRequest{StartDate: start, EndDate: end, Reason: payload.Reason})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.Idempotency != nil && key != "" {
		if encoded, err := json.Marshal(created); err == nil {
			if err := h.Idempotency.Save(r.Context(), principal.UserID, createEndpoint, key, requestHash, encoded); err != nil {
				slog.Warn("idempotency save failed", "requestId", requestID, "err", err)
			}
		}
	}
	shared.RecordAudit(r, h.Audit, principal.UserID, audit.ActionAbsenceCreate, audit.EntityAbsenceRequest, created.ID,
		map[string]any{"startDate": created.StartDate, "endDate": created.EndDate, "days": created.Days})
	api.Created(w, created, requestID)
}

func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Mine(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleAll(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	out, err := h.Service.All(r.Context(), actor(r), page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Pending(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func absenceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !shared.ValidID(id) {
		writeError(w, r, absence.ErrRequestNotFound)
		return "", false
	}
	return id, true
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := absenceID(w, r)
	if !ok {
		return
	}
	out, err := h.Service.Get(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, out, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.RequestID(r.Context())
	id, ok := absenceID(w, r)
	if !ok {
		return
	}
	var payload decisionRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	payload.Status = strings.ToUpper(strings.TrimSpace(payload.Status))
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	principal := actor(r)
	out, err := h.Service.Decide(r.Context(), principal, id, absence.Decision{
		Status:   absence.Status(payload.Status),
		Comments: payload.Comments,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, principal.UserID, audit.ActionAbsenceDecide, audit.EntityAbsenceRequest, out.ID,
		map[string]any{"status": out.Status, "comments": out.Comments})
	api.Success(w, out, requestID)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := absenceID(w, r)
	if !ok {
		return
	}
	principal := actor(r)
	if err := h.Service.Cancel(r.Context(), principal, id); err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, principal.UserID, audit.ActionAbsenceCancel, audit.EntityAbsenceRequest, id, nil)
	api.Success(w, map[string]string{"status": "cancelled"}, requestctx.RequestID(r.Context()))
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.RequestID(r.Context())
	rawStatus := r.URL.Query().Get("status")
	v := shared.NewValidator()
	v.Enum("status", rawStatus, []string{string(absence.StatusPending), string(absence.StatusApproved), string(absence.StatusRejected)}, "must be PENDING, APPROVED or REJECTED")
	if v.Reject(w, requestID) {
		return
	}
	status, _ := absence.ParseStatus(rawStatus)

	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), actor(r), status, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="absence-requests.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("write pdf failed", "requestId", requestID, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.RequestID(r.Context())
	switch {
	case errors.Is(err, access.ErrDenied):
		api.Fail(w, http.StatusForbidden, "access_denied", "access denied", requestID)
	case errors.Is(err, absence.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "absence_request_not_found", "absence request not found", requestID)
	case errors.Is(err, absence.ErrInvalidDateRange):
		api.Fail(w, http.StatusBadRequest, "invalid_date_range", "end date must be on or after start date", requestID)
	case errors.Is(err, absence.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_request_status", "only pending requests can be changed", requestID)
	case errors.Is(err, absence.ErrInvalidDecision):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "status", Reason: "must be one of: APPROVED, REJECTED"}})
	default:
		slog.Error("absence request failed", "requestId", requestID, "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
	}
}
