package v1

import (
	"context"
	"encoding/json"
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

// EntityCandidate tags candidate audit records. It is the only entity type
// with a snapshot apply-back, so only candidate records are revertible.
const EntityCandidate = "Candidate"

type CreateCandidateInput struct {
	Body struct {
		FullName      string  `json:"full_name" minLength:"1" maxLength:"300" doc:"Candidate full name"`
		Phone         string  `json:"phone,omitempty" maxLength:"50" doc:"Phone number"`
		Email         string  `json:"email,omitempty" maxLength:"200" doc:"Email address"`
		Branch        string  `json:"branch,omitempty" maxLength:"100" doc:"Branch the candidate belongs to"`
		VacancyID     *int64  `json:"vacancy_id,omitempty" doc:"Optional vacancy ID"`
		Status        string  `json:"status,omitempty" maxLength:"100" doc:"Recruitment pipeline status"`
		PaymentStatus string  `json:"payment_status,omitempty" maxLength:"100" doc:"Payment status"`
		PaymentAmount float64 `json:"payment_amount,omitempty" minimum:"0" doc:"Agreed payment amount"`
		Comment       string  `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type CandidateOutput struct {
	Body *domain.Candidate
}

type ListCandidatesInput struct {
	Branch string `query:"branch" doc:"Filter by branch"`
	Status string `query:"status" doc:"Filter by status"`
	Search string `query:"search" doc:"Match against full name or phone"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" doc:"Page size (default 50)"`
	Offset int    `query:"offset" minimum:"0" doc:"Page offset"`
}

type CandidatePage struct {
	Items []*domain.Candidate `json:"items"`
	Total int64               `json:"total"`
}

type ListCandidatesOutput struct {
	Body CandidatePage
}

type GetCandidateInput struct {
	ID int64 `path:"id" doc:"Candidate ID"`
}

type UpdateCandidateInput struct {
	ID   int64 `path:"id" doc:"Candidate ID"`
	Body struct {
		FullName      *string  `json:"full_name,omitempty" maxLength:"300" doc:"Candidate full name"`
		Phone         *string  `json:"phone,omitempty" maxLength:"50" doc:"Phone number"`
		Email         *string  `json:"email,omitempty" maxLength:"200" doc:"Email address"`
		Branch        *string  `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		VacancyID     *int64   `json:"vacancy_id,omitempty" doc:"Vacancy ID"`
		Status        *string  `json:"status,omitempty" maxLength:"100" doc:"Pipeline status"`
		PaymentStatus *string  `json:"payment_status,omitempty" maxLength:"100" doc:"Payment status"`
		PaymentAmount *float64 `json:"payment_amount,omitempty" minimum:"0" doc:"Agreed payment amount"`
		Comment       *string  `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type DeleteCandidateInput struct {
	ID int64 `path:"id" doc:"Candidate ID"`
}

func RegisterCandidateRoutes(api huma.API, store DataStore, recorder AuditRecorder, cache ListCache, events EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-candidate",
		Method:      http.MethodPost,
		Path:        "/candidates",
		Summary:     "Create a new candidate",
		Tags:        []string{"Candidates"},
	}, func(ctx context.Context, input *CreateCandidateInput) (*CandidateOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		if input.Body.VacancyID != nil {
			if _, err := store.Vacancies().GetByID(ctx, *input.Body.VacancyID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("vacancy not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate vacancy")
			}
		}

		now := time.Now()
		c := &domain.Candidate{
			FullName:      input.Body.FullName,
			Phone:         input.Body.Phone,
			Email:         input.Body.Email,
			Branch:        scopeBranch(principal, input.Body.Branch),
			VacancyID:     input.Body.VacancyID,
			Status:        input.Body.Status,
			PaymentStatus: input.Body.PaymentStatus,
			PaymentAmount: input.Body.PaymentAmount,
			Comment:       input.Body.Comment,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := store.Candidates().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create candidate", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityCandidate,
			EntityID:   c.ID,
			Action:     domain.AuditActionCreate,
			Actor:      principal,
			NewData:    c.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})

		invalidateCandidateCache(ctx, cache)
		events.PublishChange(ctx, EntityCandidate, c.ID, domain.AuditActionCreate)

		return &CandidateOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-candidates",
		Method:      http.MethodGet,
		Path:        "/candidates",
		Summary:     "List candidates",
		Tags:        []string{"Candidates"},
	}, func(ctx context.Context, input *ListCandidatesInput) (*ListCandidatesOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		f := domain.CandidateFilter{
			Branch: input.Branch,
			Status: input.Status,
			Search: input.Search,
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if f.Limit == 0 {
			f.Limit = 50
		}
		if filter := principal.BranchFilter(); filter != "" {
			f.Branch = filter
		}

		key := candidateCacheKey(f)
		if payload, ok, cacheErr := cache.Get(ctx, key); cacheErr == nil && ok {
			var page CandidatePage
			if unmarshalErr := json.Unmarshal(payload, &page); unmarshalErr == nil {
				return &ListCandidatesOutput{Body: page}, nil
			}
		} else if cacheErr != nil {
			log.Warn().Err(cacheErr).Msg("candidates: cache get")
		}

		items, err := store.Candidates().List(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list candidates", err)
		}

		total, err := store.Candidates().Count(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count candidates", err)
		}

		page := CandidatePage{Items: items, Total: total}

		if payload, marshalErr := json.Marshal(page); marshalErr == nil {
			if setErr := cache.Set(ctx, key, payload); setErr != nil {
				log.Warn().Err(setErr).Msg("candidates: cache set")
			}
		}

		return &ListCandidatesOutput{Body: page}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-candidate",
		Method:      http.MethodGet,
		Path:        "/candidates/{id}",
		Summary:     "Get a candidate by ID",
		Tags:        []string{"Candidates"},
	}, func(ctx context.Context, input *GetCandidateInput) (*CandidateOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		c, err := store.Candidates().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("candidate not found")
			}
			return nil, huma.Error500InternalServerError("failed to get candidate", err)
		}

		if !branchVisible(principal, c.Branch) {
			return nil, huma.Error404NotFound("candidate not found")
		}

		return &CandidateOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-candidate",
		Method:      http.MethodPut,
		Path:        "/candidates/{id}",
		Summary:     "Update a candidate",
		Tags:        []string{"Candidates"},
	}, func(ctx context.Context, input *UpdateCandidateInput) (*CandidateOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		existing, err := store.Candidates().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("candidate not found")
			}
			return nil, huma.Error500InternalServerError("failed to get candidate", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("candidate not found")
		}

		oldSnap := existing.Snapshot()

		if input.Body.FullName != nil {
			existing.FullName = *input.Body.FullName
		}
		if input.Body.Phone != nil {
			existing.Phone = *input.Body.Phone
		}
		if input.Body.Email != nil {
			existing.Email = *input.Body.Email
		}
		if input.Body.Branch != nil {
			existing.Branch = scopeBranch(principal, *input.Body.Branch)
		}
		if input.Body.VacancyID != nil {
			existing.VacancyID = input.Body.VacancyID
		}
		if input.Body.Status != nil {
			existing.Status = *input.Body.Status
		}
		if input.Body.PaymentStatus != nil {
			existing.PaymentStatus = *input.Body.PaymentStatus
		}
		if input.Body.PaymentAmount != nil {
			existing.PaymentAmount = *input.Body.PaymentAmount
		}
		if input.Body.Comment != nil {
			existing.Comment = *input.Body.Comment
		}
		existing.UpdatedAt = time.Now()

		if err := store.Candidates().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update candidate", err)
		}

		// One audit record per field whose canonical value changed, each
		// carrying the full before/after snapshots so any of them reverts
		// the whole entity.
		newSnap := existing.Snapshot()
		for _, change := range audit.Diff(oldSnap, newSnap) {
			recorder.Record(ctx, audit.Entry{
				EntityType: EntityCandidate,
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

		invalidateCandidateCache(ctx, cache)
		events.PublishChange(ctx, EntityCandidate, existing.ID, domain.AuditActionUpdate)

		return &CandidateOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-candidate",
		Method:      http.MethodDelete,
		Path:        "/candidates/{id}",
		Summary:     "Delete a candidate",
		Tags:        []string{"Candidates"},
	}, func(ctx context.Context, input *DeleteCandidateInput) (*struct{}, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionDelete)
		if err != nil {
			return nil, err
		}

		existing, err := store.Candidates().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("candidate not found")
			}
			return nil, huma.Error500InternalServerError("failed to get candidate", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("candidate not found")
		}

		if err := store.Candidates().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete candidate", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityCandidate,
			EntityID:   existing.ID,
			Action:     domain.AuditActionDelete,
			Actor:      principal,
			OldData:    existing.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})

		invalidateCandidateCache(ctx, cache)
		events.PublishChange(ctx, EntityCandidate, existing.ID, domain.AuditActionDelete)

		return nil, nil
	})
}

func candidateCacheKey(f domain.CandidateFilter) string {
	return fmt.Sprintf("candidates:%s:%s:%s:%d:%d", f.Branch, f.Status, f.Search, f.Limit, f.Offset)
}

func invalidateCandidateCache(ctx context.Context, cache ListCache) {
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("candidates: cache invalidate")
	}
}
