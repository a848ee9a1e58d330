package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a credential record
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"` // stored lowercased
	PasswordHash string    `json:"-" gorm:"not null"`                 // Never serialize password hash
	CreatedAt    time.Time `json:"createdAt"`
}
