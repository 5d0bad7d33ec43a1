package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/staffhub/staffhub/internal/auth"
)

type LoginInput struct {
	Body struct {
		Username string `json:"username" minLength:"1" maxLength:"100" doc:"Login name"`
		Password string `json:"password" minLength:"1" maxLength:"200" doc:"Password"`
	}
}

type TokenPairOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token from login"`
	}
}

type AccessTokenOutput struct {
	Body struct {
		AccessToken string `json:"access_token"`
	}
}

// RegisterAuthRoutes wires the unauthenticated login and refresh endpoints.
func RegisterAuthRoutes(api huma.API, svc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Exchange credentials for a token pair",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*TokenPairOutput, error) {
		access, refresh, err := svc.Login(ctx, input.Body.Username, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid credentials")
			}
			return nil, huma.Error500InternalServerError("login failed")
		}

		resp := &TokenPairOutput{}
		resp.Body.AccessToken = access
		resp.Body.RefreshToken = refresh
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Exchange a refresh token for a new access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*AccessTokenOutput, error) {
		access, err := svc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrUserNotFound) {
				return nil, huma.Error401Unauthorized("invalid refresh token")
			}
			return nil, huma.Error500InternalServerError("refresh failed")
		}

		resp := &AccessTokenOutput{}
		resp.Body.AccessToken = access
		return resp, nil
	})
}
