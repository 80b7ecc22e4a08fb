package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/repository/models"
	"quizhub/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	SetUserActive(ctx context.Context, userID string, active bool) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// sqlxUserRepository implements UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash.String,
		Role:         m.Role,
		IsActive:     m.IsActive,
		GoogleID:     m.GoogleID.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		DeletedAt:    deletedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	var deletedAt sql.NullTime
	if u.DeletedAt != nil {
		deletedAt = util.TimeToNullTime(*u.DeletedAt)
	}
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: util.StringToNullString(u.PasswordHash),
		Role:         u.Role,
		IsActive:     u.IsActive,
		GoogleID:     util.StringToNullString(u.GoogleID),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		DeletedAt:    deletedAt,
	}
}

// CreateUser inserts a new user into the database.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m := fromDomainUser(user)

	query := `INSERT INTO users (id, username, email, password_hash, role, is_active, google_id, created_at, updated_at)
	          VALUES (:id, :username, :email, :password_hash, :role, :is_active, :google_id, :created_at, :updated_at)`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getUserBy(ctx context.Context, column, value string) (*domain.User, error) {
	var m models.User
	query := fmt.Sprintf(`SELECT * FROM users WHERE %s = :1 AND deleted_at IS NULL`, column)

	executor := GetExecutor(ctx, r.db)
	err := executor.GetContext(ctx, &m, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found is not an error; services decide
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return toDomainUser(&m), nil
}

// GetUserByID retrieves a user by their internal ID.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUserBy(ctx, "id", userID)
}

// GetUserByUsername retrieves a user by username.
func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUserBy(ctx, "username", username)
}

// GetUserByEmail retrieves a user by email address.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx, "email", email)
}

// GetUserByGoogleID retrieves a user by their Google ID.
func (r *sqlxUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getUserBy(ctx, "google_id", googleID)
}

// UpdateUser updates an existing user's mutable fields.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	m := fromDomainUser(user)

	query := `UPDATE users SET
	            email = :email,
	            password_hash = :password_hash,
	            role = :role,
	            is_active = :is_active,
	            google_id = :google_id,
	            updated_at = :updated_at
	          WHERE id = :id AND deleted_at IS NULL`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetUserActive toggles the active flag. Users are never physically deleted.
func (r *sqlxUserRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	query := `UPDATE users SET is_active = :1, updated_at = :2 WHERE id = :3 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, active, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListUsers returns all non-deleted users, newest first.
func (r *sqlxUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	var rows []models.User
	query := `SELECT * FROM users WHERE deleted_at IS NULL ORDER BY created_at DESC`

	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *toDomainUser(&rows[i]))
	}
	return users, nil
}
