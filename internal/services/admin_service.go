package services

import (
	"context"
	"fmt"

	"github.com/userhub/user-service/internal/models"
	"go.uber.org/zap"
)

// AdminUserRepository is the interface that wraps user data access needed by the admin service
type AdminUserRepository interface {
	GetByID(ctx context.Context, userID int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, userID int) error
}

// AdminTokenRepository is the interface that wraps refresh token revocation needed by the admin service
type AdminTokenRepository interface {
	DeleteByUserID(ctx context.Context, userID int) error
}

// adminService implements admin user management
type adminService struct {
	userRepo      AdminUserRepository
	userTokenRepo AdminTokenRepository
	logger        *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, userTokenRepo AdminTokenRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		logger:        logger,
	}
}

// ListUsers returns all users
func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// GetUser returns a single user by ID
func (s *adminService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	return s.userRepo.GetByID(ctx, userID)
}

// DeleteUser permanently removes a user. Deletion is not soft: the row is
// gone, and every session the user held is revoked.
func (s *adminService) DeleteUser(ctx context.Context, userID int) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	// Revoke the user's refresh tokens before the row disappears. The FK
	// cascade covers the rows either way, but an explicit revocation does
	// not depend on the schema.
	if err := s.userTokenRepo.DeleteByUserID(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens for deleted user", zap.Int("user_id", userID), zap.Error(err))
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Int("user_id", userID))
	return nil
}
