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

const EntityPayment = "Payment"

type CreatePaymentInput struct {
	Body struct {
		DealID      *int64  `json:"deal_id,omitempty" doc:"Linked deal ID"`
		CandidateID *int64  `json:"candidate_id,omitempty" doc:"Linked candidate ID"`
		Amount      float64 `json:"amount" minimum:"0" doc:"Payment amount"`
		Status      string  `json:"status,omitempty" maxLength:"100" doc:"Payment status"`
		Branch      string  `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		Comment     string  `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type PaymentOutput struct {
	Body *domain.Payment
}

type ListPaymentsInput struct {
	Branch string `query:"branch" doc:"Filter by branch"`
	Status string `query:"status" doc:"Filter by status"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" doc:"Page size (default 50)"`
	Offset int    `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListPaymentsOutput struct {
	Body struct {
		Items []*domain.Payment `json:"items"`
	}
}

type GetPaymentInput struct {
	ID int64 `path:"id" doc:"Payment ID"`
}

type UpdatePaymentInput struct {
	ID   int64 `path:"id" doc:"Payment ID"`
	Body struct {
		Amount  *float64 `json:"amount,omitempty" minimum:"0" doc:"Payment amount"`
		Status  *string  `json:"status,omitempty" maxLength:"100" doc:"Payment status"`
		Branch  *string  `json:"branch,omitempty" maxLength:"100" doc:"Branch"`
		Comment *string  `json:"comment,omitempty" doc:"Free-form comment"`
	}
}

type DeletePaymentInput struct {
	ID int64 `path:"id" doc:"Payment ID"`
}

func RegisterPaymentRoutes(api huma.API, store DataStore, recorder AuditRecorder, events EventPublisher, notifier Notifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-payment",
		Method:      http.MethodPost,
		Path:        "/payments",
		Summary:     "Create a new payment",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *CreatePaymentInput) (*PaymentOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourcePayments, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		status := input.Body.Status
		if status == "" {
			status = domain.PaymentStatusPending
		}

		now := time.Now()
		p := &domain.Payment{
			DealID:      input.Body.DealID,
			CandidateID: input.Body.CandidateID,
			Amount:      input.Body.Amount,
			Status:      status,
			Branch:      scopeBranch(principal, input.Body.Branch),
			Comment:     input.Body.Comment,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if status == domain.PaymentStatusReceived {
			paid := now
			p.PaidAt = &paid
		}

		if err := store.Payments().Create(ctx, p); err != nil {
			return nil, huma.Error500InternalServerError("failed to create payment", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityPayment,
			EntityID:   p.ID,
			Action:     domain.AuditActionCreate,
			Actor:      principal,
			NewData:    p.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityPayment, p.ID, domain.AuditActionCreate)

		if p.Status == domain.PaymentStatusReceived {
			notifyPaymentReceived(ctx, notifier, p)
		}

		return &PaymentOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-payments",
		Method:      http.MethodGet,
		Path:        "/payments",
		Summary:     "List payments",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *ListPaymentsInput) (*ListPaymentsOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourcePayments, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		f := domain.PaymentFilter{
			Branch: input.Branch,
			Status: input.Status,
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if f.Limit == 0 {
			f.Limit = 50
		}
		if filter := principal.BranchFilter(); filter != "" {
			f.Branch = filter
		}

		items, err := store.Payments().List(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list payments", err)
		}

		resp := &ListPaymentsOutput{}
		resp.Body.Items = items
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-payment",
		Method:      http.MethodGet,
		Path:        "/payments/{id}",
		Summary:     "Get a payment by ID",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *GetPaymentInput) (*PaymentOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourcePayments, auth.ActionRead)
		if err != nil {
			return nil, err
		}

		p, err := store.Payments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("payment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get payment", err)
		}

		if !branchVisible(principal, p.Branch) {
			return nil, huma.Error404NotFound("payment not found")
		}

		return &PaymentOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-payment",
		Method:      http.MethodPut,
		Path:        "/payments/{id}",
		Summary:     "Update a payment",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *UpdatePaymentInput) (*PaymentOutput, error) {
		principal, err := requirePermission(ctx, auth.ResourcePayments, auth.ActionWrite)
		if err != nil {
			return nil, err
		}

		existing, err := store.Payments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("payment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get payment", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("payment not found")
		}

		oldSnap := existing.Snapshot()
		wasReceived := existing.Status == domain.PaymentStatusReceived

		if input.Body.Amount != nil {
			existing.Amount = *input.Body.Amount
		}
		if input.Body.Status != nil {
			existing.Status = *input.Body.Status
		}
		if input.Body.Branch != nil {
			existing.Branch = scopeBranch(principal, *input.Body.Branch)
		}
		if input.Body.Comment != nil {
			existing.Comment = *input.Body.Comment
		}
		if !wasReceived && existing.Status == domain.PaymentStatusReceived && existing.PaidAt == nil {
			paid := time.Now()
			existing.PaidAt = &paid
		}
		existing.UpdatedAt = time.Now()

		if err := store.Payments().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update payment", err)
		}

		newSnap := existing.Snapshot()
		for _, change := range audit.Diff(oldSnap, newSnap) {
			recorder.Record(ctx, audit.Entry{
				EntityType: EntityPayment,
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
		events.PublishChange(ctx, EntityPayment, existing.ID, domain.AuditActionUpdate)

		if !wasReceived && existing.Status == domain.PaymentStatusReceived {
			notifyPaymentReceived(ctx, notifier, existing)
		}

		return &PaymentOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-payment",
		Method:      http.MethodDelete,
		Path:        "/payments/{id}",
		Summary:     "Delete a payment",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *DeletePaymentInput) (*struct{}, error) {
		principal, err := requirePermission(ctx, auth.ResourcePayments, auth.ActionDelete)
		if err != nil {
			return nil, err
		}

		existing, err := store.Payments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("payment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get payment", err)
		}

		if !branchVisible(principal, existing.Branch) {
			return nil, huma.Error404NotFound("payment not found")
		}

		if err := store.Payments().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete payment", err)
		}

		recorder.Record(ctx, audit.Entry{
			EntityType: EntityPayment,
			EntityID:   existing.ID,
			Action:     domain.AuditActionDelete,
			Actor:      principal,
			OldData:    existing.Snapshot(),
			SourceAddr: sourceAddr(ctx),
		})
		events.PublishChange(ctx, EntityPayment, existing.ID, domain.AuditActionDelete)

		return nil, nil
	})
}

func notifyPaymentReceived(ctx context.Context, notifier Notifier, p *domain.Payment) {
	msg := fmt.Sprintf("Payment received: %.2f", p.Amount)
	if p.Branch != "" {
		msg += " [" + p.Branch + "]"
	}
	if err := notifier.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Int64("payment_id", p.ID).Msg("payments: notify failed")
	}
}
