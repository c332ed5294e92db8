// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"usermap/internal/domain/entity"
	"usermap/internal/errors"
)

// Domain-specific errors for account persistence.
var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUsernameTaken is returned when a create collides with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// Create persists a new account. The generated ID and timestamps are
	// written back onto the entity.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	// FindByUsername retrieves a single account by its unique username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// Update modifies an existing account.
	Update(ctx context.Context, account *entity.Account) error

	// FindLocated retrieves all accounts that carry a location, ordered by
	// ascending ID so map centering is deterministic.
	FindLocated(ctx context.Context) ([]*entity.Account, error)
}
