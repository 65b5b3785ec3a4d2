package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/userhub/user-service/internal/auth"
	"github.com/userhub/user-service/internal/models"
	"go.uber.org/zap"
)

// mockAuthService implements AuthService with overridable funcs
type mockAuthService struct {
	registerFunc func(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	loginFunc    func(ctx context.Context, req *models.LoginRequest) (*models.User, string, string, error)
	logoutFunc   func(ctx context.Context, userID int, refreshToken string) error
	refreshFunc  func(ctx context.Context, refreshToken string) (string, string, error)
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, "", "", errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, userID int, refreshToken string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, userID, refreshToken)
	}
	return nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return "", "", errors.New("not implemented")
}

// mockUserService implements UserService with overridable funcs
type mockUserService struct {
	getProfileFunc func(ctx context.Context, userID int) (*models.User, error)
	updateFunc     func(ctx context.Context, targetID int, caller *auth.Claims, req *models.UpdateUserRequest) (*models.User, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, userID)
	}
	return nil, errors.New("user not found")
}

func (m *mockUserService) Update(ctx context.Context, targetID int, caller *auth.Claims, req *models.UpdateUserRequest) (*models.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, targetID, caller, req)
	}
	return nil, errors.New("user not found")
}

// mockAdminService implements AdminService with overridable funcs
type mockAdminService struct {
	listUsersFunc  func(ctx context.Context) ([]models.User, error)
	getUserFunc    func(ctx context.Context, userID int) (*models.User, error)
	deleteUserFunc func(ctx context.Context, userID int) error
}

func (m *mockAdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx)
	}
	return nil, nil
}

func (m *mockAdminService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errors.New("user not found")
}

func (m *mockAdminService) DeleteUser(ctx context.Context, userID int) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, userID)
	}
	return nil
}

// newTestTokenGenerator returns a generator with short-lived test secrets
func newTestTokenGenerator() *auth.TokenGenerator {
	return auth.NewTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

// accessTokenFor mints a valid access token for the given user
func accessTokenFor(t *testing.T, tg *auth.TokenGenerator, user *models.User) string {
	t.Helper()
	token, err := tg.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// newAuthedRouter builds a router with the auth middleware wired, mirroring
// how main registers handlers
func newAuthedRouter(tg *auth.TokenGenerator, register func(r chi.Router, authMiddleware func(http.Handler) http.Handler)) chi.Router {
	r := chi.NewRouter()
	register(r, auth.Middleware(tg))
	return r
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
