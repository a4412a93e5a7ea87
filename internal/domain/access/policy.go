package access

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Role string

const (
	RoleNone     Role = ""
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.Valid() {
		return RoleNone, false
	}
	return role, true
}

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

type Action string

const (
	ActionViewOwnProfile          Action = "view-own-profile"
	ActionViewProfileBasic        Action = "view-profile-basic"
	ActionViewProfileDetailed     Action = "view-profile-detailed"
	ActionViewAllProfilesDetailed Action = "view-all-profiles-detailed"
	ActionEditProfile             Action = "edit-profile"
	ActionReassignManager         Action = "reassign-manager"
	ActionSubmitAbsence           Action = "submit-absence"
	ActionViewOwnRequests         Action = "view-own-requests"
	ActionViewRequest             Action = "view-request"
	ActionViewAllRequests         Action = "view-all-requests"
	ActionViewPendingRequests     Action = "view-pending-requests"
	ActionDecideRequest           Action = "approve"
	ActionCancelRequest           Action = "cancel-request"
	ActionExportRequests          Action = "export-requests"
	ActionLeaveFeedback           Action = "leave-feedback"
	ActionViewFeedback            Action = "view-feedback"
	ActionViewAuditLog            Action = "view-audit-log"
)

var ErrDenied = errors.New("authorization denied")

// Target describes the record an action applies to, relative to the actor.
// The zero value is a record owned by someone else (or no record at all).
type Target struct {
	Self bool
}

var (
	Self  = Target{Self: true}
	Other = Target{}
)

func TargetFor(actorUserID, ownerUserID string) Target {
	return Target{Self: actorUserID != "" && actorUserID == ownerUserID}
}

// Principal is the authenticated actor as seen by the domain services.
type Principal struct {
	UserID string
	Role   Role
}

type grant int

const (
	deny grant = iota
	allow
	selfOnly
	othersOnly
)

func (g grant) permits(target Target) bool {
	switch g {
	case allow:
		return true
	case selfOnly:
		return target.Self
	case othersOnly:
		return !target.Self
	default:
		return false
	}
}

type rule struct {
	manager  grant
	employee grant
}

var rules = map[Action]rule{
	ActionViewOwnProfile:          {manager: allow, employee: allow},
	ActionViewProfileBasic:        {manager: allow, employee: allow},
	ActionViewProfileDetailed:     {manager: allow, employee: selfOnly},
	ActionViewAllProfilesDetailed: {manager: allow, employee: deny},
	ActionEditProfile:             {manager: allow, employee: selfOnly},
	ActionReassignManager:         {manager: allow, employee: deny},
	ActionSubmitAbsence:           {manager: allow, employee: allow},
	ActionViewOwnRequests:         {manager: allow, employee: allow},
	ActionViewRequest:             {manager: allow, employee: selfOnly},
	ActionViewAllRequests:         {manager: allow, employee: deny},
	ActionViewPendingRequests:     {manager: allow, employee: deny},
	ActionDecideRequest:           {manager: allow, employee: deny},
	ActionCancelRequest:           {manager: selfOnly, employee: selfOnly},
	ActionExportRequests:          {manager: allow, employee: deny},
	// Nobody leaves feedback on their own profile, managers included.
	ActionLeaveFeedback:           {manager: othersOnly, employee: othersOnly},
	ActionViewFeedback:            {manager: allow, employee: selfOnly},
	ActionViewAuditLog:            {manager: allow, employee: deny},
}

// Can reports whether role may perform action on target. A missing role is
// denied before any rule is consulted.
func Can(role Role, action Action, target Target) bool {
	if !role.Valid() {
		return false
	}
	r, ok := rules[action]
	if !ok {
		return false
	}
	if role == RoleManager {
		return r.manager.permits(target)
	}
	return r.employee.permits(target)
}

// CanAny reports whether role may perform action on at least one kind of target.
func CanAny(role Role, action Action) bool {
	return Can(role, action, Self) || Can(role, action, Other)
}

func Require(role Role, action Action, target Target) error {
	if Can(role, action, target) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDenied, action)
}

func (p Principal) Can(action Action, ownerUserID string) bool {
	return Can(p.Role, action, TargetFor(p.UserID, ownerUserID))
}

func (p Principal) Require(action Action, ownerUserID string) error {
	return Require(p.Role, action, TargetFor(p.UserID, ownerUserID))
}

func Actions() []Action {
	out := make([]Action, 0, len(rules))
	for action := range rules {
		out = append(out, action)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ManagerExclusive lists the actions no employee may perform on any target.
func ManagerExclusive() []Action {
	var out []Action
	for _, action := range Actions() {
		if rules[action].employee == deny && rules[action].manager != deny {
			out = append(out, action)
		}
	}
	return out
}

func IsManagerExclusive(action Action) bool {
	r, ok := rules[action]
	return ok && r.employee == deny && r.manager != deny
}
