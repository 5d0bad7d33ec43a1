package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/staffhub/internal/audit"
	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
)

const EntityDeal = "Deal"

type CreateDealInput struct {
	Body struct {
		CandidateID *int64  `json:"candidate_id,omitempty" doc:"Linked candidate ID"`
		Title       string  `json:"title" minLength:"1" maxLength:"300" doc:"Deal title"`
		Amount      float64 `json:"amount,omitempty" minimum:"0" doc:"Deal amount"`
		Stage       string  `json:"stage,omitempty" enum:"new,negotiation,won,lost" doc:"Pipeline stage"`
		Branch      string  `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		Comment     string  `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type DealOutput struct {
	Body *domain.Deal
}

type ListDealsInput struct {
	Branch string `query:"branch" doc:"Filter by branch"`
	Stage  string `query:"stage" doc:"Filter by stage"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" doc:"Page size (default 50)"`
	Offset int    `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListDealsOutput struct {
	Body struct {
		Items []*domain.Deal `json:"items"`
	}
}

type GetDealInput struct {
	ID int64 `path:"id" doc:"Deal ID"`
}

type UpdateDealInput struct {
	ID   int64 `path:"id" doc:"Deal ID"`
	Body struct {
		CandidateID *int64   `json:"candidate_id,omitempty" doc:"Linked candidate ID"`
		Title       *string  `json:"title,omitempty" maxLength:"300" doc:"Deal title"`
		Amount      *float64 `json:"amount,omitempty" minimum:"0" doc:"Deal amount"`
		Stage       *string  `json:"stage,omitempty" enum:"new,negotiation,won,lost" doc:"Pipeline stage"`
		Branch      *string  `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		Comment     *string  `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type DeleteDealInput struct {
	ID int64 `path:"id" doc:"Deal ID"`
}

func RegisterDealRoutes(api huma.API, store DataStore, recorder AuditRecorder, events EventPublisher, notifier Notifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-deal",
		Method:      http.MethodPost,
		Path:        "/deals",
		Summary:     "Create a new deal",
		Tags:        []string{"Deals"},
	}, func(ctx context.Context, input *CreateDealInput) (*DealOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		if input.Body.CandidateID != nil {
			if _, err := store.Candidates().GetByID(ctx, *input.Body.CandidateID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("candidate not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate candidate")
			}
		}

		stage := domain.DealStage(input.Body.Stage)
		if stage == "" {
			stage = domain.DealStageNew
		}

		now := time.Now()
		d := &domain.Deal{
			CandidateID: input.Body.CandidateID,
			Title:       input.Body.Title,
			Amount:      input.Body.Amount,
			Stage:       stage,
			Branch:      scopeBranch(principal, input.Body.Branch),
			Comment:     input.Body.Comment,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Deals().Create(ctx, d); err != nil {
			return nil, huma.Error500InternalServerError("failed to create deal", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityDeal,
			EntityID:   d.ID,
			Action:     domain.AuditActionCreate,
			Actor:      principal,
			NewData:    d.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityDeal, d.ID, domain.AuditActionCreate)

		msg := fmt.Sprintf("New deal: %s (%.2f)", d.Title, d.Amount)
		if d.Branch != "" {
			msg += " [" + d.Branch + "]"
		}
		if err := notifier.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Int64("deal_id", d.ID).Msg("deals: notify failed")
		}

		return &DealOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-deals",
		Method:      http.MethodGet,
		Path:        "/deals",
		Summary:     "List deals",
		Tags:        []string{"Deals"},
	}, func(ctx context.Context, input *ListDealsInput) (*ListDealsOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		f := domain.DealFilter{
			Branch: input.Branch,
			Stage:  input.Stage,
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if f.Limit == 0 {
			f.Limit = 50
		}
		if filter := principal.BranchFilter(); filter != "" {
			f.Branch = filter
		}

		items, err := store.Deals().List(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list deals", err)
		}

		resp := &ListDealsOutput{}
		resp.Body.Items = items
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-deal",
		Method:      http.MethodGet,
		Path:        "/deals/{id}",
		Summary:     "Get a deal by ID",
		Tags:        []string{"Deals"},
	}, func(ctx context.Context, input *GetDealInput) (*DealOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		d, err := store.Deals().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("deal not found")
			}
			return nil, huma.Error500InternalServerError("failed to get deal", err)
		}

		if !branchVisible(principal, d.Branch) {
			return nil, huma.Error404NotFound("deal not found")
		}

		return &DealOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-deal",
		Method:      http.MethodPut,
		Path:        "/deals/{id}",
		Summary:     "Update a deal",
		Tags:        []string{"Deals"},
	}, func(ctx context.Context, input *UpdateDealInput) (*DealOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		existing, err := store.Deals().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("deal not found")
			}
			return nil, huma.Error500InternalServerError("failed to get deal", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("deal not found")
		}

		oldSnap := existing.Snapshot()

		if input.Body.CandidateID != nil {
			existing.CandidateID = input.Body.CandidateID
		}
		if input.Body.Title != nil {
			existing.Title = *input.Body.Title
		}
		if input.Body.Amount != nil {
			existing.Amount = *input.Body.Amount
		}
		if input.Body.Stage != nil {
			existing.Stage = domain.DealStage(*input.Body.Stage)
		}
		if input.Body.Branch != nil {
			existing.Branch = scopeBranch(principal, *input.Body.Branch)
		}
		if input.Body.Comment != nil {
			existing.Comment = *input.Body.Comment
		}
		existing.UpdatedAt = time.Now()

		if err := store.Deals().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update deal", err)
		}

		newSnap := existing.Snapshot()
		for _, change := range audit.Diff(oldSnap, newSnap) {
			recorder.Record(ctx, audit.Entry{
				EntityType: EntityDeal,
				EntityID:   existing.ID,
				Action:     domain.AuditActionUpdate,
				Actor:      principal,
				OldData:    oldSnap,
				NewData:    newSnap,
				FieldName:  change.Name,
				OldValue:   change.Old,
				NewValue:   change.New,
				SourceAddr: sourceAddr(ctx),
			})
		}
		events.PublishChange(ctx, EntityDeal, existing.ID, domain.AuditActionUpdate)

		return &DealOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-deal",
		Method:      http.MethodDelete,
		Path:        "/deals/{id}",
		Summary:     "Delete a deal",
		Tags:        []string{"Deals"},
	}, func(ctx context.Context, input *DeleteDealInput) (*struct{}, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionDelete)
		if err != nil {
			return nil, err
		}

		existing, err := store.Deals().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("deal not found")
			}
			return nil, huma.Error500InternalServerError("failed to get deal", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("deal not found")
		}

		if err := store.Deals().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete deal", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityDeal,
			EntityID:   existing.ID,
			Action:     domain.AuditActionDelete,
			Actor:      principal,
			OldData:    existing.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityDeal, existing.ID, domain.AuditActionDelete)

		return nil, nil
	})
}
