// Package middleware contains the HTTP middleware for the delivery layer.
package middleware

import (
	"net/http"
	"strings"

	"usermap/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "usermap_session"

	// ContextKeyAccountID is the echo context key for the logged-in account ID.
	ContextKeyAccountID = "accountID"

	// ContextKeyAccount is the echo context key for the logged-in account entity.
	ContextKeyAccount = "account"

	// ContextKeySessionToken is the echo context key for the raw session token.
	ContextKeySessionToken = "sessionToken"

	// LoginPath is where unauthenticated browsers get sent.
	LoginPath = "/login"
)

// AuthMiddleware gates routes behind a live session. The token comes from
// the session cookie or a Bearer header; either way it must parse AND match
// a session row, so a logged-out token is rejected even before its expiry.
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate validates the session and stores the account on the context.
// Requests without a valid session are redirected to the login page.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return c.Redirect(http.StatusFound, LoginPath)
		}

		account, err := m.authUsecase.Authenticate(c.Request().Context(), token)
		if err != nil {
			return c.Redirect(http.StatusFound, LoginPath)
		}

		c.Set(ContextKeyAccountID, account.ID)
		c.Set(ContextKeyAccount, account)
		c.Set(ContextKeySessionToken, token)

		return next(c)
	}
}

// extractToken pulls the session token from the cookie, falling back to a
// Bearer Authorization header for non-browser clients.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}

	return ""
}

// AccountID returns the logged-in account ID stored by Authenticate.
func AccountID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ContextKeyAccountID).(int64)

	return id, ok
}

// SessionToken returns the raw session token stored by Authenticate.
func SessionToken(c echo.Context) (string, bool) {
	token, ok := c.Get(ContextKeySessionToken).(string)

	return token, ok
}
