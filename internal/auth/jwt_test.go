package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
)

const testSecret = "test-secret-at-least-32-characters-long"

func testPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:          42,
		Username:    "kyiv_manager",
		Role:        domain.RoleBranchManager,
		Branch:      "Kyiv",
		DisplayName: "Branch Manager Kyiv",
	}
}

func TestResolveRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := auth.IssueAccessToken(testSecret, testPrincipal(), time.Minute)
	require.NoError(t, err)

	p := auth.Resolve(testSecret, token)
	require.NotNil(t, p)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, "kyiv_manager", p.Username)
	assert.Equal(t, domain.RoleBranchManager, p.Role)
	assert.Equal(t, "Kyiv", p.Branch)
	assert.Equal(t, "Branch Manager Kyiv", p.DisplayName)
}

func TestResolveRejections(t *testing.T) {
	t.Parallel()

	t.Run("empty_token", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, auth.Resolve(testSecret, ""))
	})

	t.Run("garbage_token", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, auth.Resolve(testSecret, "not.a.jwt"))
	})

	t.Run("wrong_secret", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, testPrincipal(), time.Minute)
		require.NoError(t, err)

		assert.Nil(t, auth.Resolve("another-secret-also-32-characters!!", token))
	})

	t.Run("expired_token", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, testPrincipal(), -time.Minute)
		require.NoError(t, err)

		assert.Nil(t, auth.Resolve(testSecret, token))
	})

	t.Run("refresh_token_not_accepted", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueRefreshToken(testSecret, testPrincipal(), time.Minute)
		require.NoError(t, err)

		assert.Nil(t, auth.Resolve(testSecret, token), "only access tokens authenticate requests")
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	token, err := auth.IssueAccessToken(testSecret, testPrincipal(), time.Minute)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "staffhub", claims.Issuer)

	_, err = auth.ValidateToken(testSecret, "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
