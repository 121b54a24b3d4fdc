package identity

import (
	"context"
	"errors"
	"time"

	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles login, token refresh and logout
type AuthService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	s.logger.Info("Login attempt", zap.String("username", req.Username))

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		s.logger.Warn("User not found during login", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	// Inactive accounts are only reported after a correct password.
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}
	if !user.IsActive() {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", req.Username))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	info, err := s.userInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	pair, err := s.issue(info)
	if err != nil {
		return nil, err
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))
	return toTokenResponse(pair, info), nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked before anything is issued, so a token can be redeemed only once.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}

	claimed, err := s.blacklist.RevokeOnce(ctx, claims.ID, claims.RemainingTTL(time.Now()))
	if err != nil {
		return nil, err
	}
	if !claimed {
		s.logger.Warn("Revoked refresh token presented", zap.String("user_id", claims.UserID))
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	info, err := s.userInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	pair, err := s.issue(info)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Token refreshed", zap.String("user_id", user.ID.String()))
	return toTokenResponse(pair, info), nil
}

// Logout revokes the presented access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	now := time.Now()
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL(now)); err != nil {
		return err
	}
	if refreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(refreshToken)
		switch {
		case err == nil:
			if refresh.UserID != claims.UserID {
				return shared.NewDomainError("TOKEN_INVALID", "Refresh token belongs to another user")
			}
			if err := s.blacklist.AddToBlacklist(ctx, refresh.ID, refresh.RemainingTTL(now)); err != nil {
				return err
			}
		case errors.Is(err, auth.ErrExpiredToken):
			// nothing left to revoke
		default:
			return tokenError(err)
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Me returns the current user and their effective permissions
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (*UserInfo, error) {
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userInfo(ctx, user)
}

func (s *AuthService) issue(info *UserInfo) (*auth.TokenPair, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      info.ID,
		Username:    info.Username,
		RoleID:      info.RoleID,
		Permissions: info.Permissions,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainErrorWithCause("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}
	return pair, nil
}

// userInfo resolves the permissions granted through the user's role.
// A dangling role reference grants nothing.
func (s *AuthService) userInfo(ctx context.Context, user *identity.User) (*UserInfo, error) {
	info := &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayNameOrUsername(),
		Email:       user.Email,
		RoleID:      user.RoleID,
		Permissions: []string{},
	}
	if user.RoleID == nil {
		return info, nil
	}
	role, err := s.roleRepo.FindByID(ctx, *user.RoleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User references a missing role", zap.String("user_id", user.ID.String()))
			return info, nil
		}
		return nil, err
	}
	info.RoleName = role.Name
	info.Permissions = append(info.Permissions, role.Permissions...)
	return info, nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	}
}
