package portal

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/client/backend"
	"hrapp/internal/client/guard"
	"hrapp/internal/domain/absence"
	"hrapp/internal/domain/access"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/shared"
)

type requestRow struct {
	absence.Request
	Actions []string `json:"actions"`
}

func rows(sc access.Principal, in []absence.Request) []requestRow {
	out := make([]requestRow, 0, len(in))
	for _, req := range in {
		actions := []string{}
		if req.Status == absence.StatusPending && access.CanAny(sc.Role, access.ActionDecideRequest) {
			actions = append(actions, string(access.ActionDecideRequest))
		}
		out = append(out, requestRow{Request: req, Actions: actions})
	}
	return out
}

func (h *Handler) HandleRequests(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	mine, err := h.Backend.MyRequests(r.Context(), sc.Token)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	data := map[string]any{"mine": rows(sc.Principal(), mine)}
	if access.CanAny(sc.Role, access.ActionViewAllRequests) {
		all, err := h.Backend.AllRequests(r.Context(), sc.Token)
		if err != nil {
			h.writeBackendError(w, r, err)
			return
		}
		data["all"] = rows(sc.Principal(), all)
	}
	actions := guard.Actions(sc.Principal(), sc.UserID, access.ActionSubmitAbsence)
	if access.CanAny(sc.Role, access.ActionExportRequests) {
		actions = append(actions, string(access.ActionExportRequests))
	}
	render(w, r, http.StatusOK, newPage(view, "absence-requests", actions, data))
}

func (h *Handler) HandleNewRequestView(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	actions := guard.Actions(sc.Principal(), sc.UserID, access.ActionSubmitAbsence)
	render(w, r, http.StatusOK, newPage(view, "absence-request-form", actions, map[string]any{
		"fields": []string{"startDate", "endDate", "reason"},
	}))
}

func (h *Handler) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	requestID := requestctx.RequestID(r.Context())
	if !sc.Principal().Can(access.ActionSubmitAbsence, sc.UserID) {
		denied(w, r)
		return
	}
	in, ok := readInput(w, r)
	if !ok {
		return
	}

	v := shared.NewValidator()
	v.Required("startDate", in["startDate"], "is required")
	v.Required("endDate", in["endDate"], "is required")
	start, end := in["startDate"], in["endDate"]
	if start != "" && end != "" {
		startAt, okStart := v.Date("startDate", start)
		endAt, okEnd := v.Date("endDate", end)
		if okStart && okEnd {
			v.DateOrder("startDate", startAt, "endDate", endAt)
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	out, err := h.Backend.CreateRequest(r.Context(), sc.Token, backend.NewAbsenceRequest{
		StartDate: start,
		EndDate:   end,
		Reason:    in["reason"],
	})
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	render(w, r, http.StatusCreated, newPage(view, "absence-request", nil, map[string]any{"request": out}))
}

func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	pending, err := h.Backend.PendingRequests(r.Context(), sc.Token)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, newPage(view, "pending-approvals", nil, map[string]any{
		"requests": rows(sc.Principal(), pending),
	}))
}

func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	requestID := requestctx.RequestID(r.Context())
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	v := shared.NewValidator()
	v.Required("status", in["status"], "is required")
	v.Enum("status", in["status"], []string{string(absence.StatusApproved), string(absence.StatusRejected)}, "must be one of: APPROVED, REJECTED")
	if v.Reject(w, requestID) {
		return
	}

	out, err := h.Backend.DecideRequest(r.Context(), sc.Token, chi.URLParam(r, "id"), backend.Decision{
		Status:   strings.ToUpper(in["status"]),
		Comments: in["comments"],
	})
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, newPage(view, "absence-request", nil, map[string]any{"request": out}))
}
