package repository

import (
	"context"
	"errors"
	"fmt"

	"fitplanner-backend/models"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailInUse   = errors.New("email already in use")
)

// UserRepository persists credential records. Lookups match the email
// exactly as given; callers normalize it.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// UserStoreType selects a UserRepository implementation
type UserStoreType string

const (
	UserStoreFile     UserStoreType = "file"
	UserStoreSQLite   UserStoreType = "sqlite"
	UserStorePostgres UserStoreType = "postgres"
)

// UserStoreConfig holds the settings for every backend
type UserStoreConfig struct {
	Type        UserStoreType
	FilePath    string
	SQLitePath  string
	DatabaseURL string
}

// NewUserRepository opens the configured backend. The returned close function
// releases its resources.
func NewUserRepository(ctx context.Context, cfg UserStoreConfig) (UserRepository, func(), error) {
	switch cfg.Type {
	case UserStoreFile, "":
		repo, err := NewFileUserRepository(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case UserStoreSQLite:
		repo, err := OpenSQLiteUserRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	case UserStorePostgres:
		repo, err := OpenPostgresUserRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown user store type: %s", cfg.Type)
	}
}
