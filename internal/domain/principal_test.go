package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staffhub/staffhub/internal/domain"
)

func TestBranchFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		role   domain.Role
		branch string
		want   string
	}{
		{"admin_never_scoped", domain.RoleAdmin, "Kyiv", ""},
		{"director_never_scoped", domain.RoleDirector, "Lviv", ""},
		{"branch_manager_scoped", domain.RoleBranchManager, "Kyiv", "Kyiv"},
		{"manager_scoped", domain.RoleManager, "Lviv", "Lviv"},
		{"administrator_scoped", domain.RoleAdministrator, "Kyiv", "Kyiv"},
		{"accountant_without_branch", domain.RoleAccountant, "", ""},
		{"manager_without_branch", domain.RoleManager, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &domain.Principal{Role: tt.role, Branch: tt.branch}
			assert.Equal(t, tt.want, p.BranchFilter())
			assert.Equal(t, tt.want == "", p.SeesAllBranches())
		})
	}
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.RoleBranchManager.Valid())
	assert.False(t, domain.Role("SUPERUSER").Valid())
	assert.False(t, domain.Role("").Valid())
}
