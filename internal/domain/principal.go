package domain

// Role is the fixed set of user roles. Unknown roles are denied everything
// by the permission table.
type Role string

const (
	RoleAdmin               Role = "ADMIN"
	RoleDirector            Role = "DIRECTOR"
	RoleAccountant          Role = "ACCOUNTANT"
	RoleRecruitmentDirector Role = "RECRUITMENT_DIRECTOR"
	RoleBranchManager       Role = "BRANCH_MANAGER"
	RoleAdministrator       Role = "ADMINISTRATOR"
	RoleManager             Role = "MANAGER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDirector, RoleAccountant, RoleRecruitmentDirector,
		RoleBranchManager, RoleAdministrator, RoleManager:
		return true
	default:
		return false
	}
}

// Principal is the authenticated actor behind a request. It is produced by
// verifying a signed session token and is never persisted by this core.
type Principal struct {
	ID          int64
	Username    string
	Role        Role
	Branch      string // empty means not bound to a branch
	DisplayName string
}

// SeesAllBranches reports whether the principal may see entities of every
// branch. ADMIN and DIRECTOR are never branch-scoped; any other role is
// scoped only when it carries a non-empty branch.
func (p *Principal) SeesAllBranches() bool {
	if p.Role == RoleAdmin || p.Role == RoleDirector {
		return true
	}
	return p.Branch == ""
}

// BranchFilter returns the branch the principal is restricted to, or "" when
// no restriction applies. Endpoints apply this on every read and write path.
func (p *Principal) BranchFilter() string {
	if p.SeesAllBranches() {
		return ""
	}
	return p.Branch
}
