package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitplanner-backend/logger"
	"fitplanner-backend/models"
	"fitplanner-backend/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordHashCost  = 10
	minPasswordLength = 6
)

var (
	ErrEmailRequired      = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// CredentialService handles user registration and password checks
type CredentialService struct {
	users repository.UserRepository
}

// CredentialServiceOption is a functional option for CredentialService
type CredentialServiceOption func(*CredentialService)

// CredentialWithUserRepository sets the user repository
func CredentialWithUserRepository(repo repository.UserRepository) CredentialServiceOption {
	return func(s *CredentialService) {
		s.users = repo
	}
}

// NewCredentialService creates a new credential service
func NewCredentialService(opts ...CredentialServiceOption) *CredentialService {
	s := &CredentialService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new user. The email is stored normalized, so
// registering "A@x.io" after "a@x.io" fails with ErrEmailInUse.
func (s *CredentialService) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	if s.users == nil {
		return nil, errors.New("user repository not set")
	}

	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrEmailRequired
	}
	if !looksLikeEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to secure password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailInUse) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// VerifyPassword reports whether plain matches hash. Malformed hashes are
// logged and count as a mismatch.
func (s *CredentialService) VerifyPassword(plain, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		logger.Error("failed to verify password", "error", err)
	}
	return false
}

// FindUserByEmail looks the email up exactly as given
func (s *CredentialService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindUserByID retrieves a user by ID
func (s *CredentialService) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user for a valid email/password pair. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func looksLikeEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}
