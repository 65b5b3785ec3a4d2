// Package services implements the business logic of the user-management service
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/userhub/user-service/internal/auth"
	"github.com/userhub/user-service/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Create inserts a new user and sets the store-assigned ID on the model.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by ID; "not found" is returned as an error.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// GetByEmail retrieves a user by email; "not found" is returned as an error.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ExistsByEmailOrUserName checks email/username uniqueness, ignoring the
	// user with excludeID (0 ignores nothing).
	ExistsByEmailOrUserName(ctx context.Context, email, userName string, excludeID int) (bool, error)
	// SetActive flips the active flag that approximates "currently logged in".
	SetActive(ctx context.Context, userID int, active bool) error
}

// UserTokenRepository is the interface that wraps methods for refresh token persistence
type UserTokenRepository interface {
	Create(ctx context.Context, userToken *models.UserToken) error
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error
	DeleteByToken(ctx context.Context, token string) error
}

// authService implements registration, login, logout and token refresh
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register validates the registration request, derives the username from first
// and last name, and creates the user with the default "user" role.
// Self-registration can never produce an admin.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Password == "" || req.DateOfBirth == "" || req.Description == "" {
		return nil, fmt.Errorf("all fields are required")
	}

	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))
	if !emailRegex.MatchString(normalizedEmail) {
		return nil, fmt.Errorf("invalid email format")
	}

	userName := models.DeriveUserName(req.FirstName, req.LastName)

	exists, err := s.userRepo.ExistsByEmailOrUserName(ctx, normalizedEmail, userName, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email or username already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		UserName:     userName,
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		DateOfBirth:  req.DateOfBirth,
		Description:  req.Description,
		Role:         models.RoleUser,
		Active:       false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user by email and password, marks it active and issues
// an access token plus a persisted refresh token.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", "", fmt.Errorf("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists
		return nil, "", "", fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", "", fmt.Errorf("invalid email or password")
	}

	if err := s.userRepo.SetActive(ctx, user.ID, true); err != nil {
		return nil, "", "", err
	}
	user.Active = true

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// Logout marks the user inactive and revokes the presented refresh token.
// A missing or already-revoked refresh token is not an error.
func (s *authService) Logout(ctx context.Context, userID int, refreshToken string) error {
	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		return err
	}

	if refreshToken != "" {
		if err := s.userTokenRepo.DeleteByToken(ctx, refreshToken); err != nil {
			s.logger.Warn("failed to revoke refresh token on logout", zap.Int("user_id", userID), zap.Error(err))
		}
	}

	return nil
}

// Refresh validates the presented refresh token, requires a matching stored
// record (so revoked tokens are rejected), re-derives the identity from the
// subject user, and rotates the refresh token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", fmt.Errorf("invalid or expired refresh token")
	}

	tokenUserID, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		// A token that fails verification has no business staying in the store
		s.userTokenRepo.DeleteByToken(ctx, refreshToken)
		return "", "", fmt.Errorf("invalid or expired refresh token")
	}

	userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid or expired refresh token")
	}

	if userToken.UserID != tokenUserID {
		s.logger.Warn("refresh token subject mismatch", zap.Int("token_user_id", tokenUserID), zap.Int("stored_user_id", userToken.UserID))
		return "", "", fmt.Errorf("invalid or expired refresh token")
	}

	// The new access token must carry the user's current identity, not the
	// claims baked into the old token
	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return "", "", err
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, newRefreshToken, user.ID); err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

// issueTokens generates an access/refresh token pair and persists the refresh token
func (s *authService) issueTokens(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID: user.ID,
		Token:  refreshToken,
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
