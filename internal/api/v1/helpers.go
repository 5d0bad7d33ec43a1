package v1

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
	"github.com/staffhub/staffhub/internal/server/middleware"
)

// requirePermission enforces steps (a) and (b) of every mutation endpoint:
// resolve the principal, then evaluate the permission table. Both fail fast,
// before any store access.
func requirePermission(ctx context.Context, resource, action string) (*domain.Principal, error) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok || principal == nil {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if !auth.Allowed(principal.Role, resource, action) {
		return nil, huma.Error403Forbidden("insufficient permissions")
	}

	return principal, nil
}

// branchVisible reports whether the principal may see an entity of the given
// branch. Cross-branch entities behave as if they did not exist.
func branchVisible(p *domain.Principal, branch string) bool {
	filter := p.BranchFilter()
	return filter == "" || filter == branch
}

// scopeBranch forces the entity branch to the principal's own branch for
// branch-bound principals, so a scoped manager cannot write into another
// office.
func scopeBranch(p *domain.Principal, requested string) string {
	if filter := p.BranchFilter(); filter != "" {
		return filter
	}
	return requested
}

func sourceAddr(ctx context.Context) string {
	addr, _ := middleware.SourceAddrFromContext(ctx)
	return addr
}
