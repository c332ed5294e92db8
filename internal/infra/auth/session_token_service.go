// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"usermap/config"
	"usermap/internal/domain/service"
	"usermap/internal/errors"
)

// sessionTokenService implements the TokenService interface with signed JWTs.
// The token carries the account ID and the session row ID; the row is the
// server-side half that makes logout effective before the token expires.
type sessionTokenService struct {
	secret     string
	sessionTTL time.Duration
}

// NewSessionTokenService is the constructor for sessionTokenService.
func NewSessionTokenService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	ttl := 7 * 24 * time.Hour
	if cfg.Auth != nil && cfg.Auth.SessionTTL > 0 {
		ttl = cfg.Auth.SessionTTL
	}

	return &sessionTokenService{
		secret:     cfg.SecretKey.Session,
		sessionTTL: ttl,
	}, nil
}

// IssueToken creates a signed session token for a given account and session record.
func (s *sessionTokenService) IssueToken(accountID int64, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(accountID, 10), // Subject (who the token is for)
		"sid": sessionID.String(),               // Server-side session record this token is bound to
		"iat": now.Unix(),                       // Issued At
		"exp": now.Add(s.sessionTTL).Unix(),     // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// ParseToken checks the signature and expiry of a token string and extracts its claims.
func (s *sessionTokenService) ParseToken(tokenString string) (*service.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse session token")
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse session token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("account ID missing from session token")
	}
	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account ID in session token")
	}

	sid, ok := claims["sid"].(string)
	if !ok {
		return nil, errors.New("session ID missing from session token")
	}
	sessionID, err := uuid.Parse(sid)
	if err != nil {
		return nil, errors.Wrap(err, "invalid session ID in session token")
	}

	return &service.SessionClaims{
		AccountID: accountID,
		SessionID: sessionID,
	}, nil
}

// HashToken returns the hex SHA-256 digest under which a raw token is stored.
func (s *sessionTokenService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// SessionDuration returns the configured session lifetime.
func (s *sessionTokenService) SessionDuration() time.Duration {
	return s.sessionTTL
}
