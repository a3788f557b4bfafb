package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vidquiz/internal/domain"
	"vidquiz/internal/repository/models"
	"vidquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserDatabaseAdapter implements domain.UserRepository using sqlx.DB
type UserDatabaseAdapter struct {
	db *sqlx.DB
}

// NewUserDatabaseAdapter creates a new instance of UserDatabaseAdapter
func NewUserDatabaseAdapter(db *sqlx.DB) domain.UserRepository {
	return &UserDatabaseAdapter{db: db}
}

const userColumns = `id, username, name, email, password_hash, created_at, updated_at`

// CreateUser implements domain.UserRepository
func (a *UserDatabaseAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot create nil user")
	}
	modelUser := &models.User{
		ID:           user.ID,
		Username:     user.Username,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if modelUser.ID == "" {
		modelUser.ID = util.NewULID()
	}
	if modelUser.CreatedAt.IsZero() {
		modelUser.CreatedAt = time.Now()
		modelUser.UpdatedAt = modelUser.CreatedAt
	}

	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := a.db.ExecContext(ctx, query,
		modelUser.ID,
		modelUser.Username,
		modelUser.Name,
		modelUser.Email,
		modelUser.PasswordHash,
		modelUser.CreatedAt,
		modelUser.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = modelUser.ID
	user.CreatedAt = modelUser.CreatedAt
	user.UpdatedAt = modelUser.UpdatedAt
	return nil
}

// GetUserByID implements domain.UserRepository
func (a *UserDatabaseAdapter) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var modelUser models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := a.db.GetContext(ctx, &modelUser, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return toDomainUser(&modelUser), nil
}

// GetUserByEmail implements domain.UserRepository
func (a *UserDatabaseAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var modelUser models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := a.db.GetContext(ctx, &modelUser, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomainUser(&modelUser), nil
}

func toDomainUser(modelUser *models.User) *domain.User {
	if modelUser == nil {
		return nil
	}
	return &domain.User{
		ID:           modelUser.ID,
		Username:     modelUser.Username,
		Name:         modelUser.Name,
		Email:        modelUser.Email,
		PasswordHash: modelUser.PasswordHash,
		CreatedAt:    modelUser.CreatedAt,
		UpdatedAt:    modelUser.UpdatedAt,
	}
}
