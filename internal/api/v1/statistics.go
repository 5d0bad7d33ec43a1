package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
)

type StatisticsInput struct {
	Branch string `query:"branch" doc:"Restrict figures to one branch"`
}

type StatisticsOutput struct {
	Body *domain.Statistics
}

func RegisterStatisticsRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-statistics",
		Method:      http.MethodGet,
		Path:        "/statistics",
		Summary:     "Dashboard summary figures",
		Tags:        []string{"Statistics"},
	}, func(ctx context.Context, input *StatisticsInput) (*StatisticsOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceStatistics, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		branch := input.Branch
		if filter := principal.BranchFilter(); filter != "" {
			branch = filter
		}

		stats, err := store.Stats().Summary(ctx, branch)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to compute statistics", err)
		}

		return &StatisticsOutput{Body: stats}, nil
	})
}
