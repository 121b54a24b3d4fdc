package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role and permission administration
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo identity.RoleRepository, userRepo identity.UserRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create creates a role
func (s *RoleService) Create(ctx context.Context, req RoleRequest) (*RoleResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}
	role, err := identity.NewRole(req.Name, req.Description, req.Permissions)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	s.logger.Info("Role created", zap.String("name", role.Name), zap.Int("permissions", len(role.Permissions)))

	response := ToRoleResponse(role)
	return &response, nil
}

// GetByID retrieves a role by ID
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRoleResponse(role)
	return &response, nil
}

// List retrieves all roles
func (s *RoleService) List(ctx context.Context, filter RoleListFilter) ([]RoleResponse, error) {
	f := shared.DefaultFilter()
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	roles, err := s.roleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]RoleResponse, len(roles))
	for i := range roles {
		out[i] = ToRoleResponse(&roles[i])
	}
	return out, nil
}

// Update replaces a role's name, description and permissions.
// Users holding the role pick up the change at their next login or refresh.
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req RoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, shared.NewDomainError("INVALID_STATE", "System roles cannot be modified")
	}
	if err := s.ensureNameFree(ctx, req.Name, role.ID); err != nil {
		return nil, err
	}
	if err := role.Update(req.Name, req.Description, req.Permissions); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// Delete deletes a non-system role no user holds
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := role.CanDelete(); err != nil {
		return err
	}
	holders, err := s.userRepo.CountByRole(ctx, id)
	if err != nil {
		return err
	}
	if holders > 0 {
		return shared.NewDomainError("INVALID_STATE", "Role is assigned to users")
	}
	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Role deleted", zap.String("name", role.Name))
	return nil
}

// ListPermissions returns the permission catalog
func (s *RoleService) ListPermissions() []PermissionResponse {
	perms := identity.AllPermissions()
	out := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		out[i] = PermissionResponse{Code: p.Code(), Resource: p.Resource, Action: p.Action}
	}
	return out
}

func (s *RoleService) ensureNameFree(ctx context.Context, name string, excludeID uuid.UUID) error {
	exists, err := s.roleRepo.ExistsByName(ctx, strings.ToLower(strings.TrimSpace(name)), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Role with this name already exists")
	}
	return nil
}
