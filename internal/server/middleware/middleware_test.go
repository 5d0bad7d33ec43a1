package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
	"github.com/staffhub/staffhub/internal/server/middleware"
)

const testSecret = "test-secret-at-least-32-characters-long"

func testPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:       42,
		Username: "kyiv_manager",
		Role:     domain.RoleBranchManager,
		Branch:   "Kyiv",
	}
}

func TestAuth(t *testing.T) {
	t.Parallel()

	okHandler := func(t *testing.T) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := middleware.PrincipalFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, int64(42), p.ID)
			assert.Equal(t, domain.RoleBranchManager, p.Role)
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("valid_token", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, testPrincipal(), time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware.Auth(testSecret)(okHandler(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing_header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
		rec := httptest.NewRecorder()

		middleware.Auth(testSecret)(panicHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage_token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()

		middleware.Auth(testSecret)(panicHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired_token", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, testPrincipal(), -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware.Auth(testSecret)(panicHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
		req = req.WithContext(middleware.WithPrincipal(req.Context(), testPrincipal()))
		rec := httptest.NewRecorder()

		handler := middleware.RequirePermission(auth.ResourceCandidates, auth.ActionWrite)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
			}),
		)
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("denied", func(t *testing.T) {
		t.Parallel()

		principal := testPrincipal()
		principal.Role = domain.RoleRecruitmentDirector

		req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
		req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
		rec := httptest.NewRecorder()

		handler := middleware.RequirePermission(auth.ResourceCandidates, auth.ActionWrite)(panicHandler())
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no_principal", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
		rec := httptest.NewRecorder()

		handler := middleware.RequirePermission(auth.ResourceCandidates, auth.ActionWrite)(panicHandler())
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSourceAddr(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
	req.RemoteAddr = "10.0.0.5:51234"
	rec := httptest.NewRecorder()

	handler := middleware.SourceAddr()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr, ok := middleware.SourceAddrFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "10.0.0.5:51234", addr)
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// panicHandler proves the middleware stopped the chain: reaching it fails
// the test.
func panicHandler() http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler must not be reached")
	})
}
