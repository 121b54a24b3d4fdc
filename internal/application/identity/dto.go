package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/auth"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserInfo is the authenticated user with their effective permissions
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	RoleID      *uuid.UUID `json:"role_id,omitempty"`
	RoleName    string     `json:"role_name,omitempty"`
	Permissions []string   `json:"permissions"`
}

// TokenResponse is an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  *UserInfo `json:"user,omitempty"`
}

func toTokenResponse(pair *auth.TokenPair, user *UserInfo) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  user,
	}
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username    string     `json:"username" binding:"required,min=3,max=50"`
	Email       string     `json:"email" binding:"required,email,max=200"`
	DisplayName string     `json:"display_name" binding:"max=100"`
	Password    string     `json:"password" binding:"required,min=8,max=72"`
	RoleID      *uuid.UUID `json:"role_id"`
}

// UpdateUserRequest replaces a user's profile and role
type UpdateUserRequest struct {
	Email       string     `json:"email" binding:"required,email,max=200"`
	DisplayName string     `json:"display_name" binding:"max=100"`
	RoleID      *uuid.UUID `json:"role_id"`
}

// ChangePasswordRequest changes a password. OldPassword may be empty for an admin reset.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"max=72"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserListFilter filters users
type UserListFilter struct {
	RoleID   string `form:"role_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive ACTIVE INACTIVE"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (f UserListFilter) domain() (shared.Filter, error) {
	out := shared.DefaultFilter()
	if f.OrderBy != "" {
		out.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		out.OrderDir = f.OrderDir
	}
	if f.Status != "" {
		out = out.With("status", strings.ToLower(f.Status))
	}
	if f.RoleID != "" {
		id, err := uuid.Parse(f.RoleID)
		if err != nil {
			return out, shared.NewDomainError("INVALID_INPUT", "Invalid role_id")
		}
		out = out.With("role_id", id)
	}
	return out, nil
}

// UserResponse represents a user in API responses. The password hash never leaves the service.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	RoleID      *uuid.UUID `json:"role_id,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		RoleID:      u.RoleID,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		Version:     u.Version,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// =============================================================================
// Role DTOs
// =============================================================================

// RoleRequest creates or replaces a role
type RoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=50"`
	Description string   `json:"description" binding:"max=255"`
	Permissions []string `json:"permissions" binding:"dive,max=50"`
}

// RoleListFilter carries ordering for the role list
type RoleListFilter struct {
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	IsSystem    bool      `json:"is_system"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToRoleResponse converts a domain Role to RoleResponse
func ToRoleResponse(r *identity.Role) RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
		IsSystem:    r.IsSystem,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// PermissionResponse is one entry of the permission catalog
type PermissionResponse struct {
	Code     string `json:"code"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
