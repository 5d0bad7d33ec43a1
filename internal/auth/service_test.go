package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
)

type mockUserRepo struct {
	getByIDFunc       func(ctx context.Context, id int64) (*domain.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) Create(context.Context, *domain.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) List(context.Context) ([]*domain.User, error) { return nil, nil }
func (m *mockUserRepo) Update(context.Context, *domain.User) error   { return nil }
func (m *mockUserRepo) Delete(context.Context, int64) error          { return nil }

func testUser(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return &domain.User{
		ID:           7,
		Username:     "director",
		PasswordHash: hash,
		DisplayName:  "Director",
		Role:         domain.RoleDirector,
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		user := testUser(t, "correct-password")
		repo := &mockUserRepo{
			getByUsernameFunc: func(_ context.Context, username string) (*domain.User, error) {
				assert.Equal(t, "director", username)
				return user, nil
			},
		}
		svc := auth.NewService(repo, testSecret, time.Minute, time.Hour)

		access, refresh, err := svc.Login(context.Background(), "director", "correct-password")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		p := auth.Resolve(testSecret, access)
		require.NotNil(t, p)
		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, domain.RoleDirector, p.Role)
	})

	t.Run("wrong_password", func(t *testing.T) {
		t.Parallel()

		user := testUser(t, "correct-password")
		repo := &mockUserRepo{
			getByUsernameFunc: func(context.Context, string) (*domain.User, error) {
				return user, nil
			},
		}
		svc := auth.NewService(repo, testSecret, time.Minute, time.Hour)

		_, _, err := svc.Login(context.Background(), "director", "wrong-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown_user", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByUsernameFunc: func(context.Context, string) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := auth.NewService(repo, testSecret, time.Minute, time.Hour)

		_, _, err := svc.Login(context.Background(), "ghost", "whatever")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_reloads_role", func(t *testing.T) {
		t.Parallel()

		user := testUser(t, "correct-password")
		repo := &mockUserRepo{
			getByUsernameFunc: func(context.Context, string) (*domain.User, error) {
				return user, nil
			},
			getByIDFunc: func(_ context.Context, id int64) (*domain.User, error) {
				assert.Equal(t, int64(7), id)
				// Role changed since login; the new access token must
				// carry the current role.
				demoted := *user
				demoted.Role = domain.RoleManager
				return &demoted, nil
			},
		}
		svc := auth.NewService(repo, testSecret, time.Minute, time.Hour)

		_, refresh, err := svc.Login(context.Background(), "director", "correct-password")
		require.NoError(t, err)

		access, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)

		p := auth.Resolve(testSecret, access)
		require.NotNil(t, p)
		assert.Equal(t, domain.RoleManager, p.Role)
	})

	t.Run("access_token_rejected", func(t *testing.T) {
		t.Parallel()

		svc := auth.NewService(&mockUserRepo{}, testSecret, time.Minute, time.Hour)

		access, err := auth.IssueAccessToken(testSecret, testPrincipal(), time.Minute)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted_user", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByIDFunc: func(context.Context, int64) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := auth.NewService(repo, testSecret, time.Minute, time.Hour)

		refresh, err := auth.IssueRefreshToken(testSecret, testPrincipal(), time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotContains(t, hash, "s3cret")

	assert.True(t, auth.VerifyPassword("s3cret", hash))
	assert.False(t, auth.VerifyPassword("S3cret", hash))
	assert.False(t, auth.VerifyPassword("s3cret", "malformed"))

	// Fresh salt per call.
	hash2, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}
