package identity

import (
	"slices"
	"strings"

	"github.com/storeadmin/backend/internal/domain/shared"
)

// AdminRoleName is the built-in role holding every permission
const AdminRoleName = "admin"

// Role is a named set of permissions assigned to users
type Role struct {
	shared.BaseAggregateRoot
	Name        string   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string   `gorm:"type:varchar(255)"`
	Permissions []string `gorm:"type:jsonb;not null;serializer:json"`
	IsSystem    bool     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a role with the given permissions
func NewRole(name, description string, permissions []string) (*Role, error) {
	name, err := normalizeRoleName(name)
	if err != nil {
		return nil, err
	}
	perms, err := NormalizePermissionCodes(permissions)
	if err != nil {
		return nil, err
	}
	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
		Permissions:       perms,
	}, nil
}

// NewAdminRole creates the built-in admin role
func NewAdminRole() *Role {
	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              AdminRoleName,
		Description:       "Full access",
		Permissions:       AllPermissionCodes(),
		IsSystem:          true,
	}
}

// Update replaces the role's name, description and permissions
func (r *Role) Update(name, description string, permissions []string) error {
	if r.IsSystem {
		return shared.NewDomainError("INVALID_STATE", "System roles cannot be modified")
	}
	name, err := normalizeRoleName(name)
	if err != nil {
		return err
	}
	perms, err := NormalizePermissionCodes(permissions)
	if err != nil {
		return err
	}
	r.Name = name
	r.Description = strings.TrimSpace(description)
	r.Permissions = perms
	r.IncrementVersion()
	return nil
}

// GrantAll gives a system role the full permission catalog.
// It reports whether anything changed.
func (r *Role) GrantAll() bool {
	all := AllPermissionCodes()
	if slices.Equal(r.Permissions, all) {
		return false
	}
	r.Permissions = all
	r.IncrementVersion()
	return true
}

// CanDelete returns an error when the role must not be removed
func (r *Role) CanDelete() error {
	if r.IsSystem {
		return shared.NewDomainError("INVALID_STATE", "System roles cannot be deleted")
	}
	return nil
}

// HasPermission reports whether the role grants code
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

func normalizeRoleName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	if len(name) > 50 {
		return "", shared.NewDomainError("INVALID_NAME", "Role name cannot exceed 50 characters")
	}
	return name, nil
}
