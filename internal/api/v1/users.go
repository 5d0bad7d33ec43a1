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

const EntityUser = "User"

type CreateUserInput struct {
	Body struct {
		Username    string `json:"username" minLength:"3" maxLength:"100" doc:"Login name, unique"`
		Password    string `json:"password" minLength:"8" maxLength:"200" doc:"Initial password"`
		DisplayName string `json:"display_name,omitempty" maxLength:"200" doc:"Human-readable name"`
		Role        string `json:"role" enum:"ADMIN,DIRECTOR,ACCOUNTANT,RECRUITMENT_DIRECTOR,BRANCH_MANAGER,ADMINISTRATOR,MANAGER" doc:"Account role"`
		Branch      string `json:"branch,omitempty" maxLength:"100" doc:"Branch the account is scoped to; empty means all branches"`
	}
}

type UserOutput struct {
	Body *domain.User
}

type ListUsersOutput struct {
	Body struct {
		Items []*domain.User `json:"items"`
	}
}

type GetUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

type UpdateUserInput struct {
	ID   int64 `path:"id" doc:"User ID"`
	Body struct {
		Password    *string `json:"password,omitempty" minLength:"8" maxLength:"200" doc:"New password"`
		DisplayName *string `json:"display_name,omitempty" maxLength:"200" doc:"Human-readable name"`
		Role        *string `json:"role,omitempty" enum:"ADMIN,DIRECTOR,ACCOUNTANT,RECRUITMENT_DIRECTOR,BRANCH_MANAGER,ADMINISTRATOR,MANAGER" doc:"Account role"`
		Branch      *string `json:"branch,omitempty" maxLength:"100" doc:"Branch scope"`
	}
}

type DeleteUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

func RegisterUserRoutes(api huma.API, store DataStore, recorder AuditRecorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-user",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Create a new user account",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceUsers, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		hash, err := auth.HashPassword(input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to hash password")
		}

		now := time.Now()
		u := &domain.User{
			Username:     input.Body.Username,
			PasswordHash: hash,
			DisplayName:  input.Body.DisplayName,
			Role:         domain.Role(input.Body.Role),
			Branch:       input.Body.Branch,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Users().Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("username already taken")
			}
			return nil, huma.Error500InternalServerError("failed to create user", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityUser,
			EntityID:   u.ID,
			Action:     domain.AuditActionCreate,
			Actor:      principal,
			NewData:    u.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})

		return &UserOutput{Body: u}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List user accounts",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		if _, err := requirePermission(ctx, auth.ResourceUsers, auth.ActionRead); err != nil {
			return nil, err
		}

		items, err := store.Users().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		resp := &ListUsersOutput{}
		resp.Body.Items = items
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a user account by ID",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
		if _, err := requirePermission(ctx, auth.ResourceUsers, auth.ActionRead); err != nil {
			return nil, err
		}

		u, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		return &UserOutput{Body: u}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPut,
		Path:        "/users/{id}",
		Summary:     "Update a user account",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourceUsers, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		existing, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		oldSnap := existing.Snapshot()

		if input.Body.Password != nil {
			hash, hashErr := auth.HashPassword(*input.Body.Password)
			if hashErr != nil {
				return nil, huma.Error500InternalServerError("failed to hash password")
			}
			existing.PasswordHash = hash
		}
		if input.Body.DisplayName != nil {
			existing.DisplayName = *input.Body.DisplayName
		}
		if input.Body.Role != nil {
			existing.Role = domain.Role(*input.Body.Role)
		}
		if input.Body.Branch != nil {
			existing.Branch = *input.Body.Branch
		}
		existing.UpdatedAt = time.Now()

		if err := store.Users().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update user", err)
		}

		// Password changes never show up in the diff: snapshots exclude the
		// hash.
		newSnap := existing.Snapshot()
		for _, change := range audit.Diff(oldSnap, newSnap) {
			recorder.Record(ctx, audit.Entry{
				EntityType: EntityUser,
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

		return &UserOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Delete a user account",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *DeleteUserInput) (*struct{}, error) {
		principal, err := requirePermission(ctx, auth.ResourceUsers, auth.ActionDelete)
		if err != nil {
			return nil, err
		}

		if principal.ID == input.ID {
			return nil, huma.Error422UnprocessableEntity("cannot delete own account")
		}

		existing, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		if err := store.Users().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete user", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityUser,
			EntityID:   existing.ID,
			Action:     domain.AuditActionDelete,
			Actor:      principal,
			OldData:    existing.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})

		return nil, nil
	})
}
