// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"math"
	"time"

	"usermap/internal/errors"

	"github.com/paulmach/orb"
)

// Coordinate bounds of the WGS 84 reference system.
const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
)

// Coordinate validation errors shared by signup and any future location write.
var (
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
)

// Account is the sole persisted identity in the system. It carries the
// login credential (as a bcrypt hash, never plaintext), the contact fields
// shown on the profile page, and an optional home location.
type Account struct {
	ID           int64      // Auto-increment primary key, immutable after creation.
	Username     string     // Unique login name, immutable after creation.
	PasswordHash string     // bcrypt hash of the password. Never exposed outside persistence and login checks.
	Email        string     // Primary contact email.
	FirstName    string     // Optional given name.
	LastName     string     // Optional family name.
	HomeAddress  string     // Optional free-text address; never geocoded.
	PhoneNumber  string     // Optional phone number.
	Location     *orb.Point // Optional (longitude, latitude) point. Nil means the user supplied no coordinates.
	CreatedAt    time.Time  // Timestamp of when this account was created.
	UpdatedAt    time.Time  // Timestamp of the last modification.
}

// HasLocation reports whether the account carries a geographic point.
func (a *Account) HasLocation() bool {
	return a.Location != nil
}

// NewLocation builds a validated (longitude, latitude) point.
func NewLocation(longitude, latitude float64) (*orb.Point, error) {
	if err := ValidateCoordinates(longitude, latitude); err != nil {
		return nil, err
	}
	point := orb.Point{longitude, latitude}

	return &point, nil
}

// ValidateCoordinates checks that a coordinate pair lies within the valid
// geographic ranges. NaN and infinities are rejected; they would slip past
// the range comparisons otherwise.
func ValidateCoordinates(longitude, latitude float64) error {
	if !isFinite(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return ErrLongitudeOutOfRange
	}
	if !isFinite(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return ErrLatitudeOutOfRange
	}

	return nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
