package usecase

import (
	"context"

	"usermap/internal/domain/entity"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	// GetProfile retrieves the full profile of an account.
	GetProfile(ctx context.Context, accountID int64) (*entity.Account, error)

	// UpdateProfile applies a partial update to the caller's own profile.
	// A caller editing any other account gets a forbidden error.
	UpdateProfile(ctx context.Context, sessionAccountID, targetID int64, input *UpdateProfileInput) (*entity.Account, error)

	// GetPublicProfile retrieves the public view of a profile: contact
	// fields only, never the location or the password hash.
	GetPublicProfile(ctx context.Context, accountID int64) (*PublicProfile, error)

	// ProfileQRCode renders a PNG QR code linking to the profile page.
	ProfileQRCode(ctx context.Context, accountID int64) ([]byte, error)
}

// --- Input/Output DTOs ---

// UpdateProfileInput defines the editable profile fields. Nil means "leave
// unchanged"; the username and location are not editable here.
type UpdateProfileInput struct {
	Email       *string `json:"email,omitempty" form:"email"`
	FirstName   *string `json:"first_name,omitempty" form:"first_name"`
	LastName    *string `json:"last_name,omitempty" form:"last_name"`
	HomeAddress *string `json:"home_address,omitempty" form:"home_address"`
	PhoneNumber *string `json:"phone_number,omitempty" form:"phone_number"`
}

// PublicProfile is the exact shape served by the public profile JSON
// endpoint. Exactly these six fields, nothing more.
type PublicProfile struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	HomeAddress string `json:"home_address"`
	PhoneNumber string `json:"phone_number"`
}
