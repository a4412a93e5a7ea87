package guard

import (
	"hrapp/internal/domain/access"
)

// NavItem is one entry of the portal navigation.
type NavItem struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Action string `json:"action"`
}

type navEntry struct {
	label  string
	path   string
	action access.Action
	target access.Target
}

var navTable = []navEntry{
	{label: "Dashboard", path: "/", action: access.ActionViewOwnProfile, target: access.Self},
	{label: "My profile", path: "/profile/me", action: access.ActionViewOwnProfile, target: access.Self},
	{label: "Profiles", path: "/profiles", action: access.ActionViewProfileBasic, target: access.Other},
	{label: "Absence requests", path: "/absence-requests", action: access.ActionViewOwnRequests, target: access.Self},
	{label: "New request", path: "/absence-requests/new", action: access.ActionSubmitAbsence, target: access.Self},
	{label: "Pending approvals", path: "/absence-requests/pending", action: access.ActionViewPendingRequests, target: access.Other},
}

// Navigation returns the entries role may reach. An absent role gets nothing.
func Navigation(role access.Role) []NavItem {
	out := make([]NavItem, 0, len(navTable))
	for _, e := range navTable {
		if access.Can(role, e.action, e.target) {
			out = append(out, NavItem{Label: e.label, Path: e.path, Action: string(e.action)})
		}
	}
	return out
}

// Actions filters candidate actions on a record owned by ownerUserID down to
// the ones p may perform.
func Actions(p access.Principal, ownerUserID string, candidates ...access.Action) []string {
	out := make([]string, 0, len(candidates))
	for _, action := range candidates {
		if p.Can(action, ownerUserID) {
			out = append(out, string(action))
		}
	}
	return out
}
