package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
)

type ListAuditLogsInput struct {
	EntityType string `query:"entity_type" doc:"Filter by entity type, e.g. Candidate"`
	EntityID   int64  `query:"entity_id" minimum:"0" doc:"Filter by entity ID (requires entity_type)"`
	Limit      int    `query:"limit" minimum:"0" maximum:"500" doc:"Page size (default 100)"`
}

type ListAuditLogsOutput struct {
	Body struct {
		Items []*domain.AuditRecord `json:"items"`
	}
}

type RevertInput struct {
	ID int64 `path:"id" doc:"Audit record ID to revert"`
}

type RevertOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

func RegisterAuditRoutes(api huma.API, store DataStore, reverter Reverter, cache ListCache, events EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-logs",
		Method:      http.MethodGet,
		Path:        "/audit-logs",
		Summary:     "List audit records, newest first",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditLogsInput) (*ListAuditLogsOutput, error) {
		if _, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead); err != nil {
			return nil, err
		}

		items, err := store.Audit().List(ctx, domain.AuditFilter{
			EntityType: input.EntityType,
			EntityID:   input.EntityID,
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit records", err)
		}

		resp := &ListAuditLogsOutput{}
		resp.Body.Items = items
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "revert-audit-record",
		Method:      http.MethodPost,
		Path:        "/audit-logs/revert/{id}",
		Summary:     "Restore an entity to the old snapshot of an audit record",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *RevertInput) (*RevertOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		if err := reverter.Revert(ctx, input.ID, principal, sourceAddr(ctx)); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("audit record not found")
			case errors.Is(err, domain.ErrNotRevertible):
				return nil, huma.Error422UnprocessableEntity("audit record is not revertible")
			default:
				return nil, huma.Error500InternalServerError("revert failed", err)
			}
		}

		// The apply-back mutated the entity, so stale list pages and live
		// listeners get the same treatment as any other write.
		if rec, lookupErr := store.Audit().GetByID(ctx, input.ID); lookupErr == nil {
			if rec.EntityType == EntityCandidate {
				invalidateCandidateCache(ctx, cache)
			}
			events.PublishChange(ctx, rec.EntityType, rec.EntityID, domain.AuditActionRestore)
		} else {
			log.Warn().Err(lookupErr).Int64("record_id", input.ID).Msg("audit: record lookup after revert")
		}

		resp := &RevertOutput{}
		resp.Body.Success = true
		return resp, nil
	})
}
