package portal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/client/backend"
	"hrapp/internal/client/guard"
	"hrapp/internal/domain/absence"
	"hrapp/internal/domain/access"
	"hrapp/internal/domain/profile"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/shared"
)

var profileActions = []access.Action{
	access.ActionViewProfileDetailed,
	access.ActionEditProfile,
	access.ActionReassignManager,
	access.ActionLeaveFeedback,
	access.ActionViewFeedback,
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	me, err := h.Backend.MyProfile(r.Context(), sc.Token)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	mine, err := h.Backend.MyRequests(r.Context(), sc.Token)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	data := map[string]any{
		"profile":      me,
		"myRequests":   len(mine),
		"pendingOwned": countStatus(mine, absence.StatusPending),
	}
	if access.CanAny(sc.Role, access.ActionViewPendingRequests) {
		pending, err := h.Backend.PendingRequests(r.Context(), sc.Token)
		if err != nil {
			h.writeBackendError(w, r, err)
			return
		}
		data["pendingApprovals"] = len(pending)
	}
	render(w, r, http.StatusOK, newPage(view, "dashboard", nil, data))
}

func (h *Handler) HandleMyProfile(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	me, err := h.Backend.MyProfile(r.Context(), sc.Token)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	feedbacks, err := h.Backend.ListFeedback(r.Context(), sc.Token, me.ID)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	actions := guard.Actions(sc.Principal(), me.UserID, profileActions...)
	render(w, r, http.StatusOK, newPage(view, "my-profile", actions, map[string]any{
		"profile":  me,
		"feedback": feedbacks,
	}))
}

func (h *Handler) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	detailed := access.CanAny(sc.Role, access.ActionViewAllProfilesDetailed)
	out, err := h.Backend.ListProfiles(r.Context(), sc.Token, detailed)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, newPage(view, "profiles", nil, map[string]any{
		"detailed": detailed,
		"profiles": out,
	}))
}

func (h *Handler) HandleProfileBasic(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	p, err := h.Backend.GetProfile(r.Context(), sc.Token, chi.URLParam(r, "id"), false)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	actions := guard.Actions(sc.Principal(), p.UserID, profileActions...)
	render(w, r, http.StatusOK, newPage(view, "profile-basic", actions, map[string]any{"profile": p}))
}

// HandleProfileDetailed only asks the API for the detailed view once the
// policy allows it for this profile's owner.
func (h *Handler) HandleProfileDetailed(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	id := chi.URLParam(r, "id")
	owner, ok := h.ownerOf(w, r, id)
	if !ok {
		return
	}
	principal := sc.Principal()
	if !principal.Can(access.ActionViewProfileDetailed, owner) {
		denied(w, r)
		return
	}
	p, err := h.Backend.GetProfile(r.Context(), sc.Token, id, true)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	data := map[string]any{"profile": p}
	if principal.Can(access.ActionViewFeedback, owner) {
		feedbacks, err := h.Backend.ListFeedback(r.Context(), sc.Token, id)
		if err != nil {
			h.writeBackendError(w, r, err)
			return
		}
		data["feedback"] = feedbacks
	}
	actions := guard.Actions(principal, owner, profileActions...)
	render(w, r, http.StatusOK, newPage(view, "profile-detailed", actions, data))
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	requestID := requestctx.RequestID(r.Context())
	id := chi.URLParam(r, "id")
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	existing, ok := h.basicOf(w, r, id)
	if !ok {
		return
	}
	owner := existing.UserID
	principal := sc.Principal()
	if !principal.Can(access.ActionEditProfile, owner) {
		denied(w, r)
		return
	}
	// Resubmitting the current manager is not a reassignment.
	managerID, reassign := in["managerId"]
	if reassign && managerID == existing.ManagerID {
		reassign = false
	}
	if reassign && !access.CanAny(sc.Role, access.ActionReassignManager) {
		denied(w, r)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", in["firstName"], "is required")
	v.Required("lastName", in["lastName"], "is required")
	if in["hireDate"] != "" {
		v.Date("hireDate", in["hireDate"])
	}
	if v.Reject(w, requestID) {
		return
	}

	update := backend.ProfileUpdate{
		FirstName:             in["firstName"],
		LastName:              in["lastName"],
		Department:            in["department"],
		Position:              in["position"],
		HireDate:              in["hireDate"],
		Phone:                 in["phone"],
		Address:               in["address"],
		EmergencyContactName:  in["emergencyContactName"],
		EmergencyContactPhone: in["emergencyContactPhone"],
	}
	if reassign {
		update.ManagerID = &managerID
	}
	p, err := h.Backend.UpdateProfile(r.Context(), sc.Token, id, update)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, newPage(view, "profile-detailed", guard.Actions(principal, owner, profileActions...), map[string]any{"profile": p}))
}

func (h *Handler) HandleLeaveFeedback(w http.ResponseWriter, r *http.Request) {
	view, sc := current(r)
	requestID := requestctx.RequestID(r.Context())
	id := chi.URLParam(r, "id")
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	owner, ok := h.ownerOf(w, r, id)
	if !ok {
		return
	}
	if !sc.Principal().Can(access.ActionLeaveFeedback, owner) {
		denied(w, r)
		return
	}
	v := shared.NewValidator()
	v.Required("feedbackText", in["feedbackText"], "is required")
	if v.Reject(w, requestID) {
		return
	}

	out, err := h.Backend.LeaveFeedback(r.Context(), sc.Token, id, in["feedbackText"])
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	render(w, r, http.StatusCreated, newPage(view, "feedback", nil, map[string]any{"feedback": out}))
}

// ownerOf resolves the user that owns profile id.
func (h *Handler) ownerOf(w http.ResponseWriter, r *http.Request, id string) (string, bool) {
	b, ok := h.basicOf(w, r, id)
	return b.UserID, ok
}

// basicOf fetches the basic view of profile id, which every role may read.
func (h *Handler) basicOf(w http.ResponseWriter, r *http.Request, id string) (profile.Basic, bool) {
	_, sc := current(r)
	p, err := h.Backend.GetProfile(r.Context(), sc.Token, id, false)
	if err != nil {
		h.writeBackendError(w, r, err)
		return profile.Basic{}, false
	}
	return p.Basic, true
}

func countStatus(in []absence.Request, status absence.Status) int {
	n := 0
	for _, req := range in {
		if req.Status == status {
			n++
		}
	}
	return n
}
