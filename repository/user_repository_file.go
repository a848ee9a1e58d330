package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fitplanner-backend/models"

	"github.com/google/uuid"
)

// fileUserRecord is the on-disk shape of a user; unlike models.User it keeps
// the password hash
type fileUserRecord struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type fileDocument struct {
	Users []fileUserRecord `json:"users"`
}

// FileUserRepository keeps users in a single JSON document. Every call
// re-reads the file; writes within this process are serialized.
type FileUserRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileUserRepository creates the document with an empty user list if it
// does not exist yet
func NewFileUserRepository(path string) (*FileUserRepository, error) {
	if path == "" {
		return nil, errors.New("user store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create user store directory: %w", err)
	}

	repo := &FileUserRepository{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := repo.write(&fileDocument{Users: []fileUserRecord{}}); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func (r *FileUserRepository) read() (*fileDocument, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read user store: %w", err)
	}
	doc := &fileDocument{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode user store: %w", err)
	}
	return doc, nil
}

func (r *FileUserRepository) write(doc *fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".db-*.json")
	if err != nil {
		return fmt.Errorf("failed to write user store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write user store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write user store: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace user store: %w", err)
	}
	return nil
}

func (rec fileUserRecord) toModel() *models.User {
	return &models.User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

// FindByEmail retrieves a user by exact email
func (r *FileUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, rec := range doc.Users {
		if rec.Email == email {
			return rec.toModel(), nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByID retrieves a user by ID
func (r *FileUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, rec := range doc.Users {
		if rec.ID == id {
			return rec.toModel(), nil
		}
	}
	return nil, ErrUserNotFound
}

// Create appends a user. ID and CreatedAt are filled in when zero.
func (r *FileUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	for _, rec := range doc.Users {
		if rec.Email == user.Email {
			return ErrEmailInUse
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	doc.Users = append(doc.Users, fileUserRecord{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	return r.write(doc)
}
