// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"usermap/internal/domain/entity"
	"usermap/internal/errors"
)

// Domain-specific errors for session persistence.
var (
	// ErrSessionNotFound is returned when no session matches the token hash.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session exists but has expired.
	ErrSessionExpired = errors.New("session expired")
)

// SessionRepository defines the operations for session persistence. A session
// row is the server-side authority for "logged in": deleting it invalidates
// the matching token immediately.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByTokenHash retrieves a live session by the hash of its raw token.
	// Returns ErrSessionExpired if the row exists but is past its expiry.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeleteByTokenHash removes a session by its token hash, ending it.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpired removes all sessions past their expiry.
	DeleteExpired(ctx context.Context) error
}
