package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user account administration
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// Create creates a user account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	if err := s.ensureEmailFree(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkRole(ctx, req.RoleID); err != nil {
		return nil, err
	}

	user, err := identity.NewUserWithProfile(req.Username, req.Email, req.DisplayName, req.Password, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created", zap.String("username", user.Username), zap.String("user_id", user.ID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users matching the filter
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, error) {
	f, err := filter.domain()
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, nil
}

// Update replaces a user's email, display name and role
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, user.ID); err != nil {
		return nil, err
	}
	if err := s.checkRole(ctx, req.RoleID); err != nil {
		return nil, err
	}
	if err := user.Update(req.Email, req.DisplayName, req.RoleID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes a password. Users changing their own password must
// supply the current one; resetting someone else's requires canReset.
func (s *UserService) ChangePassword(ctx context.Context, actorID, targetID uuid.UUID, canReset bool, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if actorID == targetID {
		err = user.ChangePassword(req.OldPassword, req.NewPassword)
	} else {
		if !canReset {
			return shared.NewDomainError("FORBIDDEN", "Not allowed to reset another user's password")
		}
		err = user.ResetPassword(req.NewPassword)
	}
	if err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Password changed",
		zap.String("user_id", targetID.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}

// Activate re-enables login for a user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.changeStatus(ctx, id, (*identity.User).Activate)
}

// Deactivate disables login for a user
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.changeStatus(ctx, id, (*identity.User).Deactivate)
}

// Delete deletes a user. Nobody can delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("INVALID_STATE", "You cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

// BootstrapAdmin describes the first administrator account
type BootstrapAdmin struct {
	Username string
	Email    string
	Password string
}

// EnsureBootstrapAdmin creates the admin role and a first administrator when
// no user exists yet. The admin role is topped up with any new permissions on
// every call. It reports whether a user was created.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	role, err := s.roleRepo.FindByName(ctx, identity.AdminRoleName)
	switch {
	case err == nil:
		if role.GrantAll() {
			if err := s.roleRepo.Save(ctx, role); err != nil {
				return false, err
			}
			s.logger.Info("Admin role permissions updated")
		}
	case errors.Is(err, shared.ErrNotFound):
		role = identity.NewAdminRole()
		if err := s.roleRepo.Save(ctx, role); err != nil {
			return false, err
		}
		s.logger.Info("Admin role created")
	default:
		return false, err
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if strings.TrimSpace(admin.Username) == "" || admin.Password == "" {
		s.logger.Warn("No users exist and no bootstrap admin is configured")
		return false, nil
	}

	user, err := identity.NewUserWithProfile(admin.Username, admin.Email, "Administrator", admin.Password, &role.ID)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap admin created", zap.String("username", user.Username))
	return true, nil
}

func (s *UserService) changeStatus(ctx context.Context, id uuid.UUID, change func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User status changed", zap.String("username", user.Username), zap.String("status", string(user.Status)))
	response := ToUserResponse(user)
	return &response, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, excludeID uuid.UUID) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Email is already in use")
	}
	return nil
}

func (s *UserService) checkRole(ctx context.Context, roleID *uuid.UUID) error {
	if roleID == nil {
		return nil
	}
	if _, err := s.roleRepo.FindByID(ctx, *roleID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_ROLE", "Role not found")
		}
		return err
	}
	return nil
}
