package auth

import "github.com/staffhub/staffhub/internal/domain"

// Resource names gated by the permission table. Contacts, deals and
// vacancies are front-office data and are governed by ResourceCandidates.
const (
	ResourceCandidates = "candidates"
	ResourcePayments   = "payments"
	ResourceStatistics = "statistics"
	ResourceUsers      = "users"
	ResourceSettings   = "settings"
)

// Actions evaluated against the permission table.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

type actionSet struct {
	read, write, del bool
}

var (
	r   = actionSet{read: true}
	rw  = actionSet{read: true, write: true}
	rwd = actionSet{read: true, write: true, del: true}
)

// permissions is business policy, reproduced verbatim: role -> resource ->
// permitted actions. A role or resource absent from the table is deny-all.
var permissions = map[domain.Role]map[string]actionSet{
	domain.RoleAdmin: {
		ResourceCandidates: rwd,
		ResourcePayments:   rwd,
		ResourceStatistics: r,
		ResourceUsers:      rwd,
		ResourceSettings:   rw,
	},
	domain.RoleDirector: {
		ResourceCandidates: rw,
		ResourcePayments:   r,
		ResourceStatistics: r,
		ResourceUsers:      r,
		ResourceSettings:   r,
	},
	domain.RoleAccountant: {
		ResourceCandidates: r,
		ResourcePayments:   rw,
		ResourceStatistics: r,
	},
	domain.RoleRecruitmentDirector: {
		ResourceStatistics: r,
	},
	domain.RoleBranchManager: {
		ResourceCandidates: rw,
		ResourceStatistics: r,
		ResourceUsers:      r,
	},
	domain.RoleAdministrator: {
		ResourceCandidates: rwd,
	},
	domain.RoleManager: {
		ResourceCandidates: rw,
	},
}

// Allowed reports whether the role may perform the action on the resource.
// Pure and total: unknown roles, resources and actions yield false.
func Allowed(role domain.Role, resource, action string) bool {
	set, ok := permissions[role][resource]
	if !ok {
		return false
	}
	switch action {
	case ActionRead:
		return set.read
	case ActionWrite:
		return set.write
	case ActionDelete:
		return set.del
	default:
		return false
	}
}
