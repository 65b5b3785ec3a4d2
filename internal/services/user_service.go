package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/userhub/user-service/internal/auth"
	"github.com/userhub/user-service/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUserRepository is the interface that wraps user data access needed by the user service
type ProfileUserRepository interface {
	GetByID(ctx context.Context, userID int) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error
	ExistsByEmailOrUserName(ctx context.Context, email, userName string, excludeID int) (bool, error)
}

// userService implements profile fetch and user update
type userService struct {
	userRepo ProfileUserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo ProfileUserRepository) *userService {
	return &userService{
		userRepo: userRepo,
	}
}

// GetProfile retrieves a user's record by ID
func (s *userService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	return s.userRepo.GetByID(ctx, userID)
}

// Update applies the submitted fields to the identified user. Only the
// allow-listed fields in UpdateUserRequest can change; role and active are
// honored only when the caller holds the admin role. A password change is
// rehashed, and a first/last name change re-derives the unique username.
func (s *userService) Update(ctx context.Context, targetID int, caller *auth.Claims, req *models.UpdateUserRequest) (*models.User, error) {
	if req.Empty() {
		return nil, fmt.Errorf("no fields to update")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	nameChanged := false
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, fmt.Errorf("firstName cannot be empty")
		}
		user.FirstName = strings.TrimSpace(*req.FirstName)
		nameChanged = true
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, fmt.Errorf("lastName cannot be empty")
		}
		user.LastName = strings.TrimSpace(*req.LastName)
		nameChanged = true
	}
	if nameChanged {
		user.UserName = models.DeriveUserName(user.FirstName, user.LastName)
	}

	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if !emailRegex.MatchString(email) {
			return nil, fmt.Errorf("invalid email format")
		}
		user.Email = email
	}

	if req.Email != nil || nameChanged {
		exists, err := s.userRepo.ExistsByEmailOrUserName(ctx, user.Email, user.UserName, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check user existence: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("email or username already exists")
		}
	}

	if req.DateOfBirth != nil {
		user.DateOfBirth = *req.DateOfBirth
	}
	if req.Description != nil {
		user.Description = *req.Description
	}

	// Role and active changes are an admin-only concern
	if caller.Role == models.RoleAdmin {
		if req.Role != nil {
			if !req.Role.Valid() {
				return nil, fmt.Errorf("invalid role")
			}
			user.Role = *req.Role
		}
		if req.Active != nil {
			user.Active = *req.Active
		}
	}

	// Validate and hash the password before persisting anything, so a
	// rejected request leaves no partial state behind
	var passwordHash string
	if req.Password != nil {
		if *req.Password == "" {
			return nil, fmt.Errorf("password cannot be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if passwordHash != "" {
		if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, passwordHash); err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}

	return user, nil
}
