package service

import (
	"time"

	"github.com/google/uuid"
)

// SessionClaims carries the identity a valid session token asserts. The
// token alone is not proof of login: the session row named by SessionID must
// still exist and be unexpired.
type SessionClaims struct {
	AccountID int64
	SessionID uuid.UUID
}

// TokenService defines the interface for issuing and validating the signed
// session tokens carried by cookies and Authorization headers.
type TokenService interface {
	// IssueToken creates a signed token binding an account to a session row.
	IssueToken(accountID int64, sessionID uuid.UUID) (string, error)

	// ParseToken checks signature and expiry and returns the claims.
	ParseToken(token string) (*SessionClaims, error)

	// HashToken returns the hash under which a raw token is stored.
	HashToken(token string) string

	// SessionDuration returns the configured session lifetime.
	SessionDuration() time.Duration
}
