package v1_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/staffhub/staffhub/internal/api/v1"
	"github.com/staffhub/staffhub/internal/domain"
)

func TestCreatePayment(t *testing.T) {
	t.Parallel()

	t.Run("accountant_can_create", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			payments: &mockPaymentRepo{
				createFunc: func(_ context.Context, p *domain.Payment) error {
					p.ID = 11
					assert.Equal(t, domain.PaymentStatusPending, p.Status, "status defaults to pending")
					assert.Nil(t, p.PaidAt)
					return nil
				},
			},
		}
		v1.RegisterPaymentRoutes(api, store, &captureRecorder{}, nopEvents{}, &captureNotifier{})

		resp := api.PostCtx(principalCtx(domain.RoleAccountant, ""), "/payments", map[string]any{
			"amount": 5000,
			"branch": "Kyiv",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("director_cannot_create", func(t *testing.T) {
		t.Parallel()

		// DIRECTOR reads payments but cannot write them.
		_, api := humatest.New(t)
		store := &mockDataStore{payments: &mockPaymentRepo{}}
		v1.RegisterPaymentRoutes(api, store, &captureRecorder{}, nopEvents{}, &captureNotifier{})

		resp := api.PostCtx(principalCtx(domain.RoleDirector, ""), "/payments", map[string]any{
			"amount": 5000,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("received_on_create_notifies_and_stamps_paid_at", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		notifier := &captureNotifier{}
		store := &mockDataStore{
			payments: &mockPaymentRepo{
				createFunc: func(_ context.Context, p *domain.Payment) error {
					p.ID = 12
					require.NotNil(t, p.PaidAt)
					return nil
				},
			},
		}
		v1.RegisterPaymentRoutes(api, store, &captureRecorder{}, nopEvents{}, notifier)

		resp := api.PostCtx(adminCtx(), "/payments", map[string]any{
			"amount": 7000,
			"status": domain.PaymentStatusReceived,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.Len(t, notifier.sent(), 1)
		assert.Contains(t, notifier.sent()[0], "7000")
	})
}

func TestUpdatePayment(t *testing.T) {
	t.Parallel()

	t.Run("transition_to_received_notifies_once", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		recorder := &captureRecorder{}
		notifier := &captureNotifier{}
		store := &mockDataStore{
			payments: &mockPaymentRepo{
				getByIDFunc: func(context.Context, int64) (*domain.Payment, error) {
					return &domain.Payment{ID: 3, Amount: 5000, Status: domain.PaymentStatusPending, Branch: "Kyiv"}, nil
				},
				updateFunc: func(_ context.Context, p *domain.Payment) error {
					assert.NotNil(t, p.PaidAt, "paid_at stamped on transition to received")
					return nil
				},
			},
		}
		v1.RegisterPaymentRoutes(api, store, recorder, nopEvents{}, notifier)

		resp := api.PutCtx(principalCtx(domain.RoleAccountant, ""), "/payments/3", map[string]any{
			"status": domain.PaymentStatusReceived,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, notifier.sent(), 1)

		// status changed and paid_at appeared; both are audited per field.
		entries := recorder.all()
		require.NotEmpty(t, entries)
		fields := make([]string, 0, len(entries))
		for _, e := range entries {
			assert.Equal(t, domain.AuditActionUpdate, e.Action)
			fields = append(fields, e.FieldName)
		}
		assert.Contains(t, fields, "status")
	})

	t.Run("already_received_does_not_renotify", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		notifier := &captureNotifier{}
		store := &mockDataStore{
			payments: &mockPaymentRepo{
				getByIDFunc: func(context.Context, int64) (*domain.Payment, error) {
					return &domain.Payment{ID: 3, Amount: 5000, Status: domain.PaymentStatusReceived}, nil
				},
				updateFunc: func(context.Context, *domain.Payment) error { return nil },
			},
		}
		v1.RegisterPaymentRoutes(api, store, &captureRecorder{}, nopEvents{}, notifier)

		resp := api.PutCtx(adminCtx(), "/payments/3", map[string]any{"comment": "updated"})
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Empty(t, notifier.sent())
	})
}

func TestDeletePayment(t *testing.T) {
	t.Parallel()

	t.Run("accountant_cannot_delete", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{payments: &mockPaymentRepo{}}
		v1.RegisterPaymentRoutes(api, store, &captureRecorder{}, nopEvents{}, &captureNotifier{})

		resp := api.DeleteCtx(principalCtx(domain.RoleAccountant, ""), "/payments/3")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("admin_delete_records_old_snapshot", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		recorder := &captureRecorder{}
		store := &mockDataStore{
			payments: &mockPaymentRepo{
				getByIDFunc: func(context.Context, int64) (*domain.Payment, error) {
					return &domain.Payment{ID: 3, Amount: 5000, Status: domain.PaymentStatusPending}, nil
				},
				deleteFunc: func(context.Context, int64) error { return nil },
			},
		}
		v1.RegisterPaymentRoutes(api, store, recorder, nopEvents{}, &captureNotifier{})

		resp := api.DeleteCtx(adminCtx(), "/payments/3")
		require.Equal(t, http.StatusNoContent, resp.Code)

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.AuditActionDelete, entries[0].Action)
		require.NotNil(t, entries[0].OldData)
		assert.Nil(t, entries[0].NewData)
	})
}
