package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/staffhub/staffhub/internal/api/v1"
	"github.com/staffhub/staffhub/internal/auth"
)

type mockAuthService struct {
	loginFunc   func(ctx context.Context, username, password string) (string, string, error)
	refreshFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshFunc(ctx, refreshToken)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, username, password string) (string, string, error) {
				assert.Equal(t, "admin", username)
				assert.Equal(t, "staffhub-dev", password)
				return "access-token", "refresh-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/login", map[string]any{
			"username": "admin",
			"password": "staffhub-dev",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "access-token", body.AccessToken)
		assert.Equal(t, "refresh-token", body.RefreshToken)
	})

	t.Run("bad_credentials", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(context.Context, string, string) (string, string, error) {
				return "", "", auth.ErrInvalidCredentials
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/login", map[string]any{
			"username": "admin",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			refreshFunc: func(_ context.Context, token string) (string, error) {
				assert.Equal(t, "refresh-token", token)
				return "new-access-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refresh_token": "refresh-token",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "new-access-token", body.AccessToken)
	})

	t.Run("invalid_token", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			refreshFunc: func(context.Context, string) (string, error) {
				return "", auth.ErrInvalidToken
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refresh_token": "garbage",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
