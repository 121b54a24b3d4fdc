package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*UserService, *MockUserRepository, *MockRoleRepository) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		return NewUserService(users, roles, zap.NewNop()), users, roles
	}
	newUser := func(t *testing.T) *identity.User {
		u, err := identity.NewUser("alice", "alice@example.com", testPassword)
		require.NoError(t, err)
		return u
	}

	t.Run("create", func(t *testing.T) {
		svc, users, roles := newService()
		role, err := identity.NewRole("cashier", "", nil)
		require.NoError(t, err)
		users.On("ExistsByUsername", ctx, "bob").Return(false, nil)
		users.On("ExistsByEmail", ctx, "bob@example.com", uuid.Nil).Return(false, nil)
		roles.On("FindByID", ctx, role.ID).Return(role, nil)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Create(ctx, CreateUserRequest{
			Username: "bob", Email: "bob@example.com", DisplayName: "Bob",
			Password: testPassword, RoleID: &role.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "bob", resp.Username)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, 1, resp.Version)
		assert.Equal(t, &role.ID, resp.RoleID)
	})

	t.Run("create with taken username", func(t *testing.T) {
		svc, users, _ := newService()
		users.On("ExistsByUsername", ctx, "bob").Return(true, nil)

		_, err := svc.Create(ctx, CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: testPassword})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("create with unknown role", func(t *testing.T) {
		svc, users, roles := newService()
		roleID := uuid.New()
		users.On("ExistsByUsername", ctx, "bob").Return(false, nil)
		users.On("ExistsByEmail", ctx, "bob@example.com", uuid.Nil).Return(false, nil)
		roles.On("FindByID", ctx, roleID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: testPassword, RoleID: &roleID})
		assert.Equal(t, "INVALID_ROLE", domainCode(t, err))
	})

	t.Run("update checks email against other users", func(t *testing.T) {
		svc, users, _ := newService()
		u := newUser(t)
		users.On("FindByID", ctx, u.ID).Return(u, nil)
		users.On("ExistsByEmail", ctx, "taken@example.com", u.ID).Return(true, nil)

		_, err := svc.Update(ctx, u.ID, UpdateUserRequest{Email: "taken@example.com"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("update clears role", func(t *testing.T) {
		svc, users, _ := newService()
		roleID := uuid.New()
		u, err := identity.NewUserWithProfile("alice", "alice@example.com", "", testPassword, &roleID)
		require.NoError(t, err)
		users.On("FindByID", ctx, u.ID).Return(u, nil)
		users.On("ExistsByEmail", ctx, "alice@example.com", u.ID).Return(false, nil)
		users.On("Save", ctx, u).Return(nil)

		resp, err := svc.Update(ctx, u.ID, UpdateUserRequest{Email: "alice@example.com", DisplayName: "Al"})
		require.NoError(t, err)
		assert.Nil(t, resp.RoleID)
		assert.Equal(t, "Al", resp.DisplayName)
		assert.Equal(t, 2, resp.Version)
	})

	t.Run("change own password requires current one", func(t *testing.T) {
		svc, users, _ := newService()
		u := newUser(t)
		users.On("FindByID", ctx, u.ID).Return(u, nil)

		err := svc.ChangePassword(ctx, u.ID, u.ID, true, ChangePasswordRequest{OldPassword: "wrong-pass1", NewPassword: "newpass123"})
		assert.Equal(t, "INVALID_PASSWORD", domainCode(t, err))
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("reset someone else's password", func(t *testing.T) {
		svc, users, _ := newService()
		u := newUser(t)
		users.On("FindByID", ctx, u.ID).Return(u, nil)
		users.On("Save", ctx, u).Return(nil)

		err := svc.ChangePassword(ctx, uuid.New(), u.ID, true, ChangePasswordRequest{NewPassword: "newpass123"})
		require.NoError(t, err)
		assert.True(t, u.VerifyPassword("newpass123"))
	})

	t.Run("reset without permission", func(t *testing.T) {
		svc, users, _ := newService()
		u := newUser(t)
		users.On("FindByID", ctx, u.ID).Return(u, nil)

		err := svc.ChangePassword(ctx, uuid.New(), u.ID, false, ChangePasswordRequest{NewPassword: "newpass123"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("deactivate twice", func(t *testing.T) {
		svc, users, _ := newService()
		u := newUser(t)
		users.On("FindByID", ctx, u.ID).Return(u, nil)
		users.On("Save", ctx, u).Return(nil)

		resp, err := svc.Deactivate(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "inactive", resp.Status)

		_, err = svc.Deactivate(ctx, u.ID)
		assert.Equal(t, "INVALID_STATE", domainCode(t, err))
	})

	t.Run("cannot delete self", func(t *testing.T) {
		svc, users, _ := newService()
		id := uuid.New()

		err := svc.Delete(ctx, id, id)
		assert.Equal(t, "INVALID_STATE", domainCode(t, err))
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("list with bad role filter", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.List(ctx, UserListFilter{RoleID: "nope"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("list by status", func(t *testing.T) {
		svc, users, _ := newService()
		users.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["status"] == "inactive"
		})).Return([]identity.User{*newUser(t)}, nil)

		list, err := svc.List(ctx, UserListFilter{Status: "inactive"})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	admin := BootstrapAdmin{Username: "admin", Email: "admin@example.com", Password: "changeme123"}

	t.Run("empty database", func(t *testing.T) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		svc := NewUserService(users, roles, zap.NewNop())
		roles.On("FindByName", ctx, identity.AdminRoleName).Return(nil, shared.ErrNotFound)
		roles.On("Save", ctx, mock.AnythingOfType("*identity.Role")).Return(nil)
		users.On("Count", ctx).Return(int64(0), nil)
		users.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Username == "admin" && u.RoleID != nil
		})).Return(nil)

		created, err := svc.EnsureBootstrapAdmin(ctx, admin)
		require.NoError(t, err)
		assert.True(t, created)
		users.AssertExpectations(t)
	})

	t.Run("existing users are left alone", func(t *testing.T) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		svc := NewUserService(users, roles, zap.NewNop())
		role := identity.NewAdminRole()
		roles.On("FindByName", ctx, identity.AdminRoleName).Return(role, nil)
		users.On("Count", ctx).Return(int64(3), nil)

		created, err := svc.EnsureBootstrapAdmin(ctx, admin)
		require.NoError(t, err)
		assert.False(t, created)
		roles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("admin role is topped up", func(t *testing.T) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		svc := NewUserService(users, roles, zap.NewNop())
		role := identity.NewAdminRole()
		role.Permissions = []string{"product:read"}
		roles.On("FindByName", ctx, identity.AdminRoleName).Return(role, nil)
		roles.On("Save", ctx, role).Return(nil)
		users.On("Count", ctx).Return(int64(1), nil)

		_, err := svc.EnsureBootstrapAdmin(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, identity.AllPermissionCodes(), role.Permissions)
	})

	t.Run("no configured admin", func(t *testing.T) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		svc := NewUserService(users, roles, zap.NewNop())
		roles.On("FindByName", ctx, identity.AdminRoleName).Return(identity.NewAdminRole(), nil)
		users.On("Count", ctx).Return(int64(0), nil)

		created, err := svc.EnsureBootstrapAdmin(ctx, BootstrapAdmin{})
		require.NoError(t, err)
		assert.False(t, created)
	})
}
