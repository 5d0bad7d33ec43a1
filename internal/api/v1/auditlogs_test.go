package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/staffhub/staffhub/internal/api/v1"
	"github.com/staffhub/staffhub/internal/domain"
)

type mockReverter struct {
	revertFunc func(ctx context.Context, recordID int64, actor *domain.Principal, sourceAddr string) error
}

func (m *mockReverter) Revert(ctx context.Context, recordID int64, actor *domain.Principal, sourceAddr string) error {
	return m.revertFunc(ctx, recordID, actor, sourceAddr)
}

func TestListAuditLogs(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audit: &mockAuditRepo{
				listFunc: func(_ context.Context, f domain.AuditFilter) ([]*domain.AuditRecord, error) {
					assert.Equal(t, "Candidate", f.EntityType)
					assert.Equal(t, int64(7), f.EntityID)
					return []*domain.AuditRecord{
						{ID: 2, EntityType: "Candidate", EntityID: 7, Action: domain.AuditActionUpdate},
						{ID: 1, EntityType: "Candidate", EntityID: 7, Action: domain.AuditActionCreate},
					}, nil
				},
			},
		}
		v1.RegisterAuditRoutes(api, store, &mockReverter{}, newMemCache(), nopEvents{})

		resp := api.GetCtx(adminCtx(), "/audit-logs?entity_type=Candidate&entity_id=7")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Items []*domain.AuditRecord `json:"items"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Items, 2)
		assert.Equal(t, int64(2), body.Items[0].ID, "newest first")
	})

	t.Run("forbidden_role", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{audit: &mockAuditRepo{}}
		v1.RegisterAuditRoutes(api, store, &mockReverter{}, newMemCache(), nopEvents{})

		resp := api.GetCtx(principalCtx(domain.RoleRecruitmentDirector, ""), "/audit-logs")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestRevertAuditRecord(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		reverter := &mockReverter{
			revertFunc: func(_ context.Context, recordID int64, actor *domain.Principal, _ string) error {
				assert.Equal(t, int64(12), recordID)
				require.NotNil(t, actor)
				assert.Equal(t, domain.RoleAdmin, actor.Role)
				return nil
			},
		}
		store := &mockDataStore{
			audit: &mockAuditRepo{
				getByIDFunc: func(_ context.Context, id int64) (*domain.AuditRecord, error) {
					assert.Equal(t, int64(12), id)
					return &domain.AuditRecord{ID: 12, EntityType: "Candidate", EntityID: 7, Action: domain.AuditActionUpdate}, nil
				},
			},
		}
		cache := newMemCache()
		require.NoError(t, cache.Set(context.Background(), "candidates:::50:0", []byte(`{"items":[]}`)))
		events := &captureEvents{}
		v1.RegisterAuditRoutes(api, store, reverter, cache, events)

		resp := api.PostCtx(adminCtx(), "/audit-logs/revert/12")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Success bool `json:"success"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)

		// The apply-back is a candidate mutation: cached list pages must go
		// and listeners must hear about it.
		assert.Equal(t, 1, cache.invalidated)
		_, ok, err := cache.Get(context.Background(), "candidates:::50:0")
		require.NoError(t, err)
		assert.False(t, ok, "pre-revert page must not be served")

		published := events.all()
		require.Len(t, published, 1)
		assert.Equal(t, "Candidate", published[0].entityType)
		assert.Equal(t, int64(7), published[0].entityID)
		assert.Equal(t, domain.AuditActionRestore, published[0].action)
	})

	t.Run("record_not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		reverter := &mockReverter{
			revertFunc: func(context.Context, int64, *domain.Principal, string) error {
				return domain.ErrNotFound
			},
		}
		v1.RegisterAuditRoutes(api, &mockDataStore{}, reverter, newMemCache(), nopEvents{})

		resp := api.PostCtx(adminCtx(), "/audit-logs/revert/99")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("not_revertible", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		reverter := &mockReverter{
			revertFunc: func(context.Context, int64, *domain.Principal, string) error {
				return domain.ErrNotRevertible
			},
		}
		v1.RegisterAuditRoutes(api, &mockDataStore{}, reverter, newMemCache(), nopEvents{})

		resp := api.PostCtx(adminCtx(), "/audit-logs/revert/3")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("storage_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		reverter := &mockReverter{
			revertFunc: func(context.Context, int64, *domain.Principal, string) error {
				return errors.New("connection reset")
			},
		}
		v1.RegisterAuditRoutes(api, &mockDataStore{}, reverter, newMemCache(), nopEvents{})

		resp := api.PostCtx(adminCtx(), "/audit-logs/revert/3")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})

	t.Run("read_only_role_cannot_revert", func(t *testing.T) {
		t.Parallel()

		// ACCOUNTANT may read candidates but not write them, and reverting
		// is a write.
		_, api := humatest.New(t)
		reverter := &mockReverter{}
		v1.RegisterAuditRoutes(api, &mockDataStore{}, reverter, newMemCache(), nopEvents{})

		resp := api.PostCtx(principalCtx(domain.RoleAccountant, ""), "/audit-logs/revert/3")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
