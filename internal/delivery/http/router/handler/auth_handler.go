// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"usermap/internal/delivery/http/middleware"
	"usermap/internal/delivery/http/response"
	domainerrors "usermap/internal/domain/errors"
	"usermap/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for signup, login, and logout handlers.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	logger      *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUsecase usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger,
	}
}

// Signup handles the signup form submission. Validation problems re-render
// as field errors with status 200; success redirects to the front page.
func (h *AuthHandler) Signup(c echo.Context) error {
	var input usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}

	_, err := h.authUsecase.Signup(c.Request().Context(), &input)
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) {
			return response.FormErrors(c, validationErr.Fields())
		}

		return errors.WithStack(err)
	}

	// Signup does not log the user in; the front page bounces them to the
	// login form.
	return c.Redirect(http.StatusFound, "/")
}

// LoginForm describes the login form for API-driven clients.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"fields": []string{"username", "password"},
		"action": middleware.LoginPath,
		"method": http.MethodPost,
	}, "Log in")
}

// Login handles the login form submission. A failed attempt re-renders the
// form with the same message whether the username or the password was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.authUsecase.Login(c.Request().Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			return response.FormFailure(c, domainerrors.ErrInvalidCredentials.Message())
		}

		return errors.WithStack(err)
	}

	c.SetCookie(sessionCookie(output.Token, output.ExpiresAt))

	return c.Redirect(http.StatusFound, "/")
}

// Logout ends the current session and sends the browser back to the login
// page with the cookie cleared.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := middleware.SessionToken(c)
	if ok {
		if err := h.authUsecase.Logout(c.Request().Context(), token); err != nil {
			h.logger.Warn("Logout failed", slog.String("error", err.Error()))
		}
	}

	c.SetCookie(expiredSessionCookie())

	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

func sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
