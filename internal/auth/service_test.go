// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/servicesync/backend/internal/core"
)

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Create(ctx context.Context, token *RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepo) FindByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) MarkAsUsed(ctx context.Context, id, replacedByID string) error {
	args := m.Called(ctx, id, replacedByID)
	return args.Error(0)
}

func (m *mockTokenRepo) RevokeByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTokenRepo) RevokeByFamilyID(ctx context.Context, familyID string) error {
	args := m.Called(ctx, familyID)
	return args.Error(0)
}

func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserProvider struct {
	mock.Mock
}

func (m *mockUserProvider) GetByEmail(ctx context.Context, email string) (*UserInfo, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserInfo), args.Error(1)
}

func (m *mockUserProvider) GetByID(ctx context.Context, id string) (*UserInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserInfo), args.Error(1)
}

func (m *mockUserProvider) Create(ctx context.Context, email, passwordHash, name string) (*UserInfo, error) {
	args := m.Called(ctx, email, passwordHash, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserInfo), args.Error(1)
}

func (m *mockUserProvider) IncrementTokenVersion(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserProvider) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func testUser(t *testing.T, password string) *UserInfo {
	t.Helper()

	hash := ""
	if password != "" {
		var err error
		hash, err = core.HashPassword(password)
		require.NoError(t, err)
	}

	return &UserInfo{
		ID:           "u-1",
		Email:        "owner@business.com",
		Name:         "Owner",
		PasswordHash: hash,
		Role:         "business",
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, 15*time.Minute)

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(mockTokenRepo)
		users := new(mockUserProvider)
		users.On("GetByEmail", ctx, "nobody@example.com").
			Return(nil, core.ErrNotFound)
		svc := NewService(repo, manager, users)

		_, err := svc.Login(ctx, LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		}, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrIdentityNotFound)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(mockTokenRepo)
		users := new(mockUserProvider)
		users.On("GetByEmail", ctx, "owner@business.com").
			Return(testUser(t, "correct-horse"), nil)
		svc := NewService(repo, manager, users)

		_, err := svc.Login(ctx, LoginRequest{
			Email:    "owner@business.com",
			Password: "wrong-password",
		}, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("FederatedOnlyAccount", func(t *testing.T) {
		repo := new(mockTokenRepo)
		users := new(mockUserProvider)
		users.On("GetByEmail", ctx, "owner@business.com").
			Return(testUser(t, ""), nil)
		svc := NewService(repo, manager, users)

		_, err := svc.Login(ctx, LoginRequest{
			Email:    "owner@business.com",
			Password: "any-password",
		}, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(mockTokenRepo)
		users := new(mockUserProvider)
		users.On("GetByEmail", ctx, "owner@business.com").
			Return(testUser(t, "correct-horse"), nil)
		repo.On("Create", ctx, mock.AnythingOfType("*auth.RefreshToken")).
			Return(nil)
		svc := NewService(repo, manager, users)

		resp, err := svc.Login(ctx, LoginRequest{
			Email:    "owner@business.com",
			Password: "correct-horse",
		}, "ua", "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, "business", resp.Role)
		assert.Equal(t, "business", resp.User.Role)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)

		claims, err := manager.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "business", claims.Role)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, 15*time.Minute)

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(mockTokenRepo)
		users := new(mockUserProvider)
		users.On("Create", ctx, "owner@business.com", mock.Anything, "Owner").
			Return(nil, core.ErrDuplicateKey)
		svc := NewService(repo, manager, users)

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "owner@business.com",
			Password: "password123",
			Name:     "Owner",
		}, "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(mockTokenRepo)
		users := new(mockUserProvider)
		users.On("Create", ctx, "owner@business.com", mock.Anything, "Owner").
			Return(testUser(t, "password123"), nil)
		repo.On("Create", ctx, mock.AnythingOfType("*auth.RefreshToken")).
			Return(nil)
		svc := NewService(repo, manager, users)

		resp, err := svc.Register(ctx, RegisterRequest{
			Email:    "owner@business.com",
			Password: "password123",
			Name:     "Owner",
		}, "ua", "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, "business", resp.Role)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, 15*time.Minute)

	t.Run("UnknownToken", func(t *testing.T) {
		repo := new(mockTokenRepo)
		repo.On("FindByHash", ctx, mock.Anything).Return(nil, core.ErrNotFound)
		svc := NewService(repo, manager, new(mockUserProvider))

		_, err := svc.Refresh(ctx, "bogus-token", "ua", "1.2.3.4")
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("ReuseRevokesFamily", func(t *testing.T) {
		repo := new(mockTokenRepo)
		repo.On("FindByHash", ctx, mock.Anything).Return(&RefreshToken{
			ID:        "rt-1",
			UserID:    "u-1",
			FamilyID:  "fam-1",
			IsUsed:    true,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		repo.On("RevokeByFamilyID", ctx, "fam-1").Return(nil)
		svc := NewService(repo, manager, new(mockUserProvider))

		_, err := svc.Refresh(ctx, "reused-token", "ua", "1.2.3.4")
		assert.ErrorIs(t, err, ErrTokenReuse)
		repo.AssertCalled(t, "RevokeByFamilyID", ctx, "fam-1")
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		repo := new(mockTokenRepo)
		repo.On("FindByHash", ctx, mock.Anything).Return(&RefreshToken{
			ID:        "rt-1",
			UserID:    "u-1",
			FamilyID:  "fam-1",
			ExpiresAt: time.Now().Add(-time.Hour),
		}, nil)
		svc := NewService(repo, manager, new(mockUserProvider))

		_, err := svc.Refresh(ctx, "expired-token", "ua", "1.2.3.4")
		assert.ErrorIs(t, err, core.ErrTokenExpired)
	})

	t.Run("RotationKeepsFamily", func(t *testing.T) {
		repo := new(mockTokenRepo)
		users := new(mockUserProvider)
		repo.On("FindByHash", ctx, mock.Anything).Return(&RefreshToken{
			ID:        "rt-1",
			UserID:    "u-1",
			FamilyID:  "fam-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		users.On("GetByID", ctx, "u-1").Return(testUser(t, "pw-irrelevant"), nil)

		var stored *RefreshToken
		repo.On("Create", ctx, mock.AnythingOfType("*auth.RefreshToken")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*RefreshToken)
			}).
			Return(nil)
		repo.On("MarkAsUsed", ctx, "rt-1", mock.Anything).Return(nil)
		svc := NewService(repo, manager, users)

		resp, err := svc.Refresh(ctx, "valid-token", "ua", "1.2.3.4")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
		require.NotNil(t, stored)
		assert.Equal(t, "fam-1", stored.FamilyID)
		repo.AssertCalled(t, "MarkAsUsed", ctx, "rt-1", stored.ID)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, 15*time.Minute)

	t.Run("UnknownTokenIsNoOp", func(t *testing.T) {
		repo := new(mockTokenRepo)
		repo.On("FindByHash", ctx, mock.Anything).Return(nil, core.ErrNotFound)
		svc := NewService(repo, manager, new(mockUserProvider))

		assert.NoError(t, svc.Logout(ctx, "gone-token", "u-1"))
	})

	t.Run("OtherUsersTokenForbidden", func(t *testing.T) {
		repo := new(mockTokenRepo)
		repo.On("FindByHash", ctx, mock.Anything).Return(&RefreshToken{
			ID:     "rt-1",
			UserID: "u-2",
		}, nil)
		svc := NewService(repo, manager, new(mockUserProvider))

		err := svc.Logout(ctx, "their-token", "u-1")
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("RevokesOwnToken", func(t *testing.T) {
		repo := new(mockTokenRepo)
		repo.On("FindByHash", ctx, mock.Anything).Return(&RefreshToken{
			ID:     "rt-1",
			UserID: "u-1",
		}, nil)
		repo.On("RevokeByID", ctx, "rt-1").Return(nil)
		svc := NewService(repo, manager, new(mockUserProvider))

		assert.NoError(t, svc.Logout(ctx, "my-token", "u-1"))
		repo.AssertExpectations(t)
	})
}

func TestService_LogoutAll(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, 15*time.Minute)

	repo := new(mockTokenRepo)
	users := new(mockUserProvider)
	repo.On("RevokeAllForUser", ctx, "u-1").Return(nil)
	users.On("IncrementTokenVersion", ctx, "u-1").Return(nil)
	svc := NewService(repo, manager, users)

	assert.NoError(t, svc.LogoutAll(ctx, "u-1"))
	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}
