package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fitplanner-backend/logger"
)

// ErrQuotaExceeded is logged when an encoded value is larger than the store allows
var ErrQuotaExceeded = errors.New("storage: value exceeds quota")

// Keys of the persisted planner state
const (
	KeyUserProfile         = "userProfile"
	KeyWorkoutFilters      = "workoutFilters"
	KeyDietFilters         = "dietFilters"
	KeyCombinedPlan        = "combinedPlan"
	KeyGroceryList         = "groceryList"
	KeyPreviousPlanSummary = "previousPlanSummary"
)

// KVStore stores JSON encoded values by string key. Failures never reach the
// caller: they are logged, and an unreadable value reads as absent.
type KVStore struct {
	backend       Storage
	prefix        string
	maxValueBytes int
}

// NewKVStore wraps backend. maxValueBytes <= 0 disables the size check.
func NewKVStore(backend Storage, maxValueBytes int) *KVStore {
	return &KVStore{backend: backend, maxValueBytes: maxValueBytes}
}

// Namespace returns a store whose keys live under prefix
func (s *KVStore) Namespace(prefix string) *KVStore {
	return &KVStore{
		backend:       s.backend,
		prefix:        s.prefix + prefix + "/",
		maxValueBytes: s.maxValueBytes,
	}
}

func (s *KVStore) key(key string) string {
	return s.prefix + key
}

// Get decodes the value stored under key into dest and reports whether it did
func (s *KVStore) Get(ctx context.Context, key string, dest any) bool {
	data, err := s.backend.Get(ctx, s.key(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("error getting item from store", "key", s.key(key), "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Error("error decoding stored item", "key", s.key(key), "error", err)
		return false
	}
	return true
}

// Set encodes value as JSON and stores it under key
func (s *KVStore) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("error encoding item for store", "key", s.key(key), "error", err)
		return
	}
	if s.maxValueBytes > 0 && len(data) > s.maxValueBytes {
		logger.Error("error storing item", "key", s.key(key), "error",
			fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(data), s.maxValueBytes))
		return
	}
	if err := s.backend.Put(ctx, s.key(key), data); err != nil {
		logger.Error("error storing item", "key", s.key(key), "error", err)
	}
}

// Remove deletes key
func (s *KVStore) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, s.key(key)); err != nil {
		logger.Error("error removing item from store", "key", s.key(key), "error", err)
	}
}
