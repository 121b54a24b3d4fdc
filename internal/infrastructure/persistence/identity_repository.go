package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var (
	userList = listSpec{
		sortFields:   fields("username", "email", "display_name", "status", "last_login_at"),
		filterFields: set("status", "role_id"),
		defaultSort:  "username",
	}
	roleList = listSpec{
		sortFields:   fields("name", "is_system"),
		filterFields: set("is_system"),
		defaultSort:  "name",
	}
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var u identity.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// FindByUsername matches case-insensitively
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var u identity.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&u).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := applyList(r.db.WithContext(ctx).Model(&identity.User{}), filter, userList)
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.db, &identity.User{}, "LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username)))
}

// ExistsByEmail ignores the user identified by excludeID
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &identity.User{}, "email = ? AND id <> ?", strings.ToLower(strings.TrimSpace(email)), excludeID)
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUserRepository) CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.User{}).Where("role_id = ?", roleID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return translateError(r.db.WithContext(ctx).Save(user).Error)
}

func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &identity.User{}, id)
}

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &role, nil
}

func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).Where("name = ?", strings.ToLower(strings.TrimSpace(name))).First(&role).Error; err != nil {
		return nil, translateError(err)
	}
	return &role, nil
}

func (r *GormRoleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Role, error) {
	var roles []identity.Role
	query := applyList(r.db.WithContext(ctx).Model(&identity.Role{}), filter, roleList)
	if err := query.Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// ExistsByName ignores the role identified by excludeID
func (r *GormRoleRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &identity.Role{}, "name = ? AND id <> ?", strings.ToLower(strings.TrimSpace(name)), excludeID)
}

func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return translateError(r.db.WithContext(ctx).Save(role).Error)
}

func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &identity.Role{}, id)
}

var (
	_ identity.UserRepository = (*GormUserRepository)(nil)
	_ identity.RoleRepository = (*GormRoleRepository)(nil)
)
