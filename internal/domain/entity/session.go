// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a single authenticated login. The raw token travels in
// a cookie or Authorization header; only its SHA-256 hash is stored, so a
// database leak does not leak usable credentials. Deleting the row is what
// makes logout stick: token validation always checks the row is still there.
type Session struct {
	ID        uuid.UUID // The unique ID for this session record; also embedded in the signed token.
	AccountID int64     // Links this session to the Account it belongs to.
	TokenHash string    // SHA-256 hash of the raw session token.
	ExpiresAt time.Time // The exact time when this session expires and becomes invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
