package services

import (
	"context"
	"errors"

	"github.com/userhub/user-service/internal/models"
)

// mockUserRepo implements the user repository interfaces with overridable funcs
type mockUserRepo struct {
	createFunc             func(ctx context.Context, user *models.User) error
	getByIDFunc            func(ctx context.Context, userID int) (*models.User, error)
	getByEmailFunc         func(ctx context.Context, email string) (*models.User, error)
	existsFunc             func(ctx context.Context, email, userName string, excludeID int) (bool, error)
	setActiveFunc          func(ctx context.Context, userID int, active bool) error
	updateFunc             func(ctx context.Context, user *models.User) error
	updatePasswordHashFunc func(ctx context.Context, userID int, passwordHash string) error
	listFunc               func(ctx context.Context) ([]models.User, error)
	deleteFunc             func(ctx context.Context, userID int) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, userID)
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepo) ExistsByEmailOrUserName(ctx context.Context, email, userName string, excludeID int) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, email, userName, excludeID)
	}
	return false, nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, userID int, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, userID, active)
	}
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error {
	if m.updatePasswordHashFunc != nil {
		return m.updatePasswordHashFunc(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, userID int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID)
	}
	return nil
}

// mockTokenRepo implements UserTokenRepository with overridable funcs and call tracking
type mockTokenRepo struct {
	createFunc         func(ctx context.Context, userToken *models.UserToken) error
	getByTokenFunc     func(ctx context.Context, token string) (*models.UserToken, error)
	updateTokenFunc    func(ctx context.Context, oldToken, newToken string, userID int) error
	deleteByTokenFunc  func(ctx context.Context, token string) error
	deleteByUserIDFunc func(ctx context.Context, userID int) error

	createdTokens  []string
	deletedTokens  []string
	revokedUserIDs []int
}

func (m *mockTokenRepo) Create(ctx context.Context, userToken *models.UserToken) error {
	m.createdTokens = append(m.createdTokens, userToken.Token)
	if m.createFunc != nil {
		return m.createFunc(ctx, userToken)
	}
	return nil
}

func (m *mockTokenRepo) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	if m.getByTokenFunc != nil {
		return m.getByTokenFunc(ctx, token)
	}
	return nil, errors.New("token not found")
}

func (m *mockTokenRepo) UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error {
	if m.updateTokenFunc != nil {
		return m.updateTokenFunc(ctx, oldToken, newToken, userID)
	}
	return nil
}

func (m *mockTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	m.deletedTokens = append(m.deletedTokens, token)
	if m.deleteByTokenFunc != nil {
		return m.deleteByTokenFunc(ctx, token)
	}
	return nil
}

func (m *mockTokenRepo) DeleteByUserID(ctx context.Context, userID int) error {
	m.revokedUserIDs = append(m.revokedUserIDs, userID)
	if m.deleteByUserIDFunc != nil {
		return m.deleteByUserIDFunc(ctx, userID)
	}
	return nil
}
