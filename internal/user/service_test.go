// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/servicesync/backend/internal/core"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockRepository) IncrementTokenVersion(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) List(ctx context.Context, params ListUsersParams) ([]User, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]User), args.Int(1), args.Error(2)
}

func (m *mockRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) DeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("DerivesRoleAtSignup", func(t *testing.T) {
		cases := []struct {
			email string
			role  string
		}{
			{"admin@servicesync.dev", RoleDeveloper},
			{"Owner@BUSINESS.com", RoleBusiness},
			{"someone@gmail.com", RoleUser},
		}

		for _, tc := range cases {
			repo := new(mockRepository)
			var created *User
			repo.On("Create", ctx, mock.AnythingOfType("*user.User")).
				Run(func(args mock.Arguments) {
					created = args.Get(1).(*User)
				}).
				Return(nil)
			svc := NewService(repo, testPolicy())

			info, err := svc.Create(ctx, tc.email, "hash", "Name")
			require.NoError(t, err, tc.email)
			assert.Equal(t, tc.role, info.Role, tc.email)
			require.NotNil(t, created)
			assert.Equal(t, tc.role, created.Role, tc.email)
		}
	})

	t.Run("NormalizesEmail", func(t *testing.T) {
		repo := new(mockRepository)
		var created *User
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*User)
			}).
			Return(nil)
		svc := NewService(repo, testPolicy())

		_, err := svc.Create(ctx, "Owner@Business.COM", "hash", "Owner")
		require.NoError(t, err)
		assert.Equal(t, "owner@business.com", created.Email)
	})

	t.Run("DuplicatePropagates", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).
			Return(core.ErrDuplicateKey)
		svc := NewService(repo, testPolicy())

		_, err := svc.Create(ctx, "dupe@gmail.com", "hash", "Dupe")
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})
}

func TestService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepository)
	repo.On("DeleteCascade", ctx, "u-1").Return(nil)
	svc := NewService(repo, testPolicy())

	assert.NoError(t, svc.DeleteUser(ctx, "u-1"))
	repo.AssertExpectations(t)
}

func TestService_ResolveName(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepository)
	repo.On("GetByID", ctx, "u-1").Return(&User{ID: "u-1", Name: "Asha"}, nil)
	svc := NewService(repo, testPolicy())

	name, err := svc.ResolveName(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", name)
}
