// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"usermap/internal/domain/entity"
)

// AuthUsecase defines the interface for signup, login, and session handling.
type AuthUsecase interface {
	// Signup validates the input and creates a new account. Validation
	// problems come back as a *domainerrors.ValidationError carrying
	// per-field messages; nothing is persisted in that case.
	Signup(ctx context.Context, input *SignupInput) (*entity.Account, error)

	// Login verifies the credentials and opens a new session. Unknown
	// username and wrong password return the same error.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Logout ends the session the token belongs to.
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a session token to the logged-in account.
	Authenticate(ctx context.Context, token string) (*entity.Account, error)
}

// --- Input/Output DTOs ---

// SignupInput defines the data submitted by the signup form. Latitude and
// Longitude arrive as raw form strings and are parsed during validation;
// both must be given or both left empty.
type SignupInput struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	HomeAddress     string `json:"home_address" form:"home_address"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	Latitude        string `json:"latitude" form:"latitude"`
	Longitude       string `json:"longitude" form:"longitude"`
}

// LoginInput defines the credentials submitted by the login form.
type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginOutput carries the session token issued on a successful login.
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	Account   *entity.Account
}
