package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionModel mirrors the 'sessions' table. TokenHash is the hex SHA-256 of
// the raw token, so the stored value is useless to an attacker on its own.
type SessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID int64     `gorm:"index;not null"`
	TokenHash string    `gorm:"type:char(64);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// BeforeCreate assigns an ID when the caller has not set one.
func (m *SessionModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
