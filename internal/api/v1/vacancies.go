package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/staffhub/staffhub/internal/audit"
	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
)

const EntityVacancy = "Vacancy"

type CreateVacancyInput struct {
	Body struct {
		Title       string  `json:"title" minLength:"1" maxLength:"300" doc:"Vacancy title"`
		Branch      string  `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		City        string  `json:"city,omitempty" maxLength:"100" doc:"City"`
		SalaryFrom  float64 `json:"salary_from,omitempty" minimum:"0" doc:"Salary range lower bound"`
		SalaryTo    float64 `json:"salary_to,omitempty" minimum:"0" doc:"Salary range upper bound"`
		Description string  `json:"description,omitempty" doc:"Vacancy description"`
		Active      *bool   `json:"active,omitempty" doc:"Whether the vacancy accepts candidates (default true)"`
	}
}

type VacancyOutput struct {
	Body *domain.Vacancy
}

type ListVacanciesInput struct {
	Branch     string `query:"branch" doc:"Filter by branch"`
	ActiveOnly bool   `query:"active_only" doc:"Only active vacancies"`
	Limit      int    `query:"limit" minimum:"0" maximum:"1000" doc:"Page size (default 50)"`
	Offset     int    `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListVacanciesOutput struct {
	Body struct {
		Items []*domain.Vacancy `json:"items"`
	}
}

type GetVacancyInput struct {
	ID int64 `path:"id" doc:"Vacancy ID"`
}

type UpdateVacancyInput struct {
	ID   int64 `path:"id" doc:"Vacancy ID"`
	Body struct {
		Title       *string  `json:"title,omitempty" maxLength:"300" doc:"Vacancy title"`
		Branch      *string  `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		City        *string  `json:"city,omitempty" maxLength:"100" doc:"City"`
		SalaryFrom  *float64 `json:"salary_from,omitempty" minimum:"0" doc:"Salary range lower bound"`
		SalaryTo    *float64 `json:"salary_to,omitempty" minimum:"0" doc:"Salary range upper bound"`
		Description *string  `json:"description,omitempty" doc:"Vacancy description"`
		Active      *bool    `json:"active,omitempty" doc:"Whether the vacancy accepts candidates"`
	}
}

type DeleteVacancyInput struct {
	ID int64 `path:"id" doc:"Vacancy ID"`
}

func RegisterVacancyRoutes(api huma.API, store DataStore, recorder AuditRecorder, events EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-vacancy",
		Method:      http.MethodPost,
		Path:        "/vacancies",
		Summary:     "Create a new vacancy",
		Tags:        []string{"Vacancies"},
	}, func(ctx context.Context, input *CreateVacancyInput) (*VacancyOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		active := true
		if input.Body.Active != nil {
			active = *input.Body.Active
		}

		now := time.Now()
		v := &domain.Vacancy{
			Title:       input.Body.Title,
			Branch:      scopeBranch(principal, input.Body.Branch),
			City:        input.Body.City,
			SalaryFrom:  input.Body.SalaryFrom,
			SalaryTo:    input.Body.SalaryTo,
			Description: input.Body.Description,
			Active:      active,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Vacancies().Create(ctx, v); err != nil {
			return nil, huma.Error500InternalServerError("failed to create vacancy", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityVacancy,
			EntityID:   v.ID,
			Action:     domain.AuditActionCreate,
			Actor:      principal,
			NewData:    v.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityVacancy, v.ID, domain.AuditActionCreate)

		return &VacancyOutput{Body: v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-vacancies",
		Method:      http.MethodGet,
		Path:        "/vacancies",
		Summary:     "List vacancies",
		Tags:        []string{"Vacancies"},
	}, func(ctx context.Context, input *ListVacanciesInput) (*ListVacanciesOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		f := domain.VacancyFilter{
			Branch:     input.Branch,
			ActiveOnly: input.ActiveOnly,
			Limit:      input.Limit,
			Offset:     input.Offset,
		}
		if f.Limit == 0 {
			f.Limit = 50
		}
		if filter := principal.BranchFilter(); filter != "" {
			f.Branch = filter
		}

		items, err := store.Vacancies().List(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list vacancies", err)
		}

		resp := &ListVacanciesOutput{}
		resp.Body.Items = items
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-vacancy",
		Method:      http.MethodGet,
		Path:        "/vacancies/{id}",
		Summary:     "Get a vacancy by ID",
		Tags:        []string{"Vacancies"},
	}, func(ctx context.Context, input *GetVacancyInput) (*VacancyOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		v, err := store.Vacancies().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("vacancy not found")
			}
			return nil, huma.Error500InternalServerError("failed to get vacancy", err)
		}

		if !branchVisible(principal, v.Branch) {
			return nil, huma.Error404NotFound("vacancy not found")
		}

		return &VacancyOutput{Body: v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-vacancy",
		Method:      http.MethodPut,
		Path:        "/vacancies/{id}",
		Summary:     "Update a vacancy",
		Tags:        []string{"Vacancies"},
	}, func(ctx context.Context, input *UpdateVacancyInput) (*VacancyOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		existing, err := store.Vacancies().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("vacancy not found")
			}
			return nil, huma.Error500InternalServerError("failed to get vacancy", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("vacancy not found")
		}

		oldSnap := existing.Snapshot()

		if input.Body.Title != nil {
			existing.Title = *input.Body.Title
		}
		if input.Body.Branch != nil {
			existing.Branch = scopeBranch(principal, *input.Body.Branch)
		}
		if input.Body.City != nil {
			existing.City = *input.Body.City
		}
		if input.Body.SalaryFrom != nil {
			existing.SalaryFrom = *input.Body.SalaryFrom
		}
		if input.Body.SalaryTo != nil {
			existing.SalaryTo = *input.Body.SalaryTo
		}
		if input.Body.Description != nil {
			existing.Description = *input.Body.Description
		}
		if input.Body.Active != nil {
			existing.Active = *input.Body.Active
		}
		existing.UpdatedAt = time.Now()

		if err := store.Vacancies().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update vacancy", err)
		}

		newSnap := existing.Snapshot()
		for _, change := range audit.Diff(oldSnap, newSnap) {
			recorder.Record(ctx, audit.Entry{
				EntityType: EntityVacancy,
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
		events.PublishChange(ctx, EntityVacancy, existing.ID, domain.AuditActionUpdate)

		return &VacancyOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-vacancy",
		Method:      http.MethodDelete,
		Path:        "/vacancies/{id}",
		Summary:     "Delete a vacancy",
		Tags:        []string{"Vacancies"},
	}, func(ctx context.Context, input *DeleteVacancyInput) (*struct{}, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionDelete)
		if err != nil {
			return nil, err
		}

		existing, err := store.Vacancies().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("vacancy not found")
			}
			return nil, huma.Error500InternalServerError("failed to get vacancy", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("vacancy not found")
		}

		if err := store.Vacancies().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete vacancy", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityVacancy,
			EntityID:   existing.ID,
			Action:     domain.AuditActionDelete,
			Actor:      principal,
			OldData:    existing.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityVacancy, existing.ID, domain.AuditActionDelete)

		return nil, nil
	})
}
