// Package repositories provides database access for users and refresh tokens
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/userhub/user-service/internal/models"
	"go.uber.org/zap"
)

// userRepository implements user data access over database/sql
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, first_name, last_name, user_name, email, password_hash, date_of_birth, description, role, active, created_at`

// scanUser scans a full user row
func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.UserName,
		&user.Email,
		&user.PasswordHash,
		&user.DateOfBirth,
		&user.Description,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database and sets the assigned ID
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, user_name, email, password_hash, date_of_birth, description, role, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.UserName,
		user.Email,
		user.PasswordHash,
		user.DateOfBirth,
		user.Description,
		user.Role,
		user.Active,
	)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmailOrUserName checks whether another user already holds the given
// email or username. excludeID ignores one user row (0 excludes nothing).
func (r *userRepository) ExistsByEmailOrUserName(ctx context.Context, email, userName string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE (email = ? OR user_name = ?) AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email, userName, excludeID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check user existence", zap.Error(err), zap.String("email", email), zap.String("user_name", userName))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// List retrieves all users
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// Update persists the editable fields of a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = ?, last_name = ?, user_name = ?, email = ?, date_of_birth = ?, description = ?, role = ?, active = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.UserName,
		user.Email,
		user.DateOfBirth,
		user.Description,
		user.Role,
		user.Active,
		user.ID,
	)
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("user_id", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	return nil
}

// UpdatePasswordHash updates the password hash for a user
func (r *userRepository) UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, passwordHash, userID); err != nil {
		r.logger.Error("failed to update password hash", zap.Error(err), zap.Int("user_id", userID))
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	return nil
}

// SetActive updates the active flag of a user
func (r *userRepository) SetActive(ctx context.Context, userID int, active bool) error {
	query := `UPDATE users SET active = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, active, userID); err != nil {
		r.logger.Error("failed to set active flag", zap.Error(err), zap.Int("user_id", userID))
		return fmt.Errorf("failed to set active flag: %w", err)
	}

	return nil
}

// Delete permanently removes a user by ID
func (r *userRepository) Delete(ctx context.Context, userID int) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
