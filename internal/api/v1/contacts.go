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

const EntityContact = "Contact"

type CreateContactInput struct {
	Body struct {
		Name     string `json:"name" minLength:"1" maxLength:"300" doc:"Contact name"`
		Phone    string `json:"phone,omitempty" maxLength:"50" doc:"Phone number"`
		Email    string `json:"email,omitempty" maxLength:"200" doc:"Email address"`
		Branch   string `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		Position string `json:"position,omitempty" maxLength:"200" doc:"Job position"`
		Comment  string `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type ContactOutput struct {
	Body *domain.Contact
}

type ListContactsInput struct {
	Branch string `query:"branch" doc:"Filter by branch"`
	Search string `query:"search" doc:"Match against name or phone"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" doc:"Page size (default 50)"`
	Offset int    `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListContactsOutput struct {
	Body struct {
		Items []*domain.Contact `json:"items"`
	}
}

type GetContactInput struct {
	ID int64 `path:"id" doc:"Contact ID"`
}

type UpdateContactInput struct {
	ID   int64 `path:"id" doc:"Contact ID"`
	Body struct {
		Name     *string `json:"name,omitempty" maxLength:"300" doc:"Contact name"`
		Phone    *string `json:"phone,omitempty" maxLength:"50" doc:"Phone number"`
		Email    *string `json:"email,omitempty" maxLength:"200" doc:"Email address"`
		Branch   *string `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		Position *string `json:"position,omitempty" maxLength:"200" doc:"Job position"`
		Comment  *string `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type DeleteContactInput struct {
	ID int64 `path:"id" doc:"Contact ID"`
}

func RegisterContactRoutes(api huma.API, store DataStore, recorder AuditRecorder, events EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-contact",
		Method:      http.MethodPost,
		Path:        "/contacts",
		Summary:     "Create a new contact",
		Tags:        []string{"Contacts"},
	}, func(ctx context.Context, input *CreateContactInput) (*ContactOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		c := &domain.Contact{
			Name:      input.Body.Name,
			Phone:     input.Body.Phone,
			Email:     input.Body.Email,
			Branch:    scopeBranch(principal, input.Body.Branch),
			Position:  input.Body.Position,
			Comment:   input.Body.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Contacts().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create contact", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityContact,
			EntityID:   c.ID,
			Action:     domain.AuditActionCreate,
			Actor:      principal,
			NewData:    c.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityContact, c.ID, domain.AuditActionCreate)

		return &ContactOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contacts",
		Method:      http.MethodGet,
		Path:        "/contacts",
		Summary:     "List contacts",
		Tags:        []string{"Contacts"},
	}, func(ctx context.Context, input *ListContactsInput) (*ListContactsOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		f := domain.ContactFilter{
			Branch: input.Branch,
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

		items, err := store.Contacts().List(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list contacts", err)
		}

		resp := &ListContactsOutput{}
		resp.Body.Items = items
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-contact",
		Method:      http.MethodGet,
		Path:        "/contacts/{id}",
		Summary:     "Get a contact by ID",
		Tags:        []string{"Contacts"},
	}, func(ctx context.Context, input *GetContactInput) (*ContactOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		c, err := store.Contacts().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("contact not found")
			}
			return nil, huma.Error500InternalServerError("failed to get contact", err)
		}

		if !branchVisible(principal, c.Branch) {
			return nil, huma.Error404NotFound("contact not found")
		}

		return &ContactOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-contact",
		Method:      http.MethodPut,
		Path:        "/contacts/{id}",
		Summary:     "Update a contact",
		Tags:        []string{"Contacts"},
	}, func(ctx context.Context, input *UpdateContactInput) (*ContactOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		existing, err := store.Contacts().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("contact not found")
			}
			return nil, huma.Error500InternalServerError("failed to get contact", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("contact not found")
		}

		oldSnap := existing.Snapshot()

		if input.Body.Name != nil {
			existing.Name = *input.Body.Name
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
		if input.Body.Position != nil {
			existing.Position = *input.Body.Position
		}
		if input.Body.Comment != nil {
			existing.Comment = *input.Body.Comment
		}
		existing.UpdatedAt = time.Now()

		if err := store.Contacts().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update contact", err)
		}

		newSnap := existing.Snapshot()
		for _, change := range audit.Diff(oldSnap, newSnap) {
			recorder.Record(ctx, audit.Entry{
				EntityType: EntityContact,
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
		events.PublishChange(ctx, EntityContact, existing.ID, domain.AuditActionUpdate)

		return &ContactOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-contact",
		Method:      http.MethodDelete,
		Path:        "/contacts/{id}",
		Summary:     "Delete a contact",
		Tags:        []string{"Contacts"},
	}, func(ctx context.Context, input *DeleteContactInput) (*struct{}, error) {
		principal, err := requirePermission(ctx, auth.ResourceCandidates, auth.ActionDelete)
		if err != nil {
			return nil, err
		}

		existing, err := store.Contacts().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("contact not found")
			}
			return nil, huma.Error500InternalServerError("failed to get contact", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("contact not found")
		}

		if err := store.Contacts().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete contact", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityContact,
			EntityID:   existing.ID,
			Action:     domain.AuditActionDelete,
			Actor:      principal,
			OldData:    existing.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityContact, existing.ID, domain.AuditActionDelete)

		return nil, nil
	})
}
