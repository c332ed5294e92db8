package impl

import (
	"bytes"
	"context"
	"testing"

	domainerrors "usermap/internal/domain/errors"
	"usermap/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestProfileService_GetProfile_Success(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	created, err := fixtures.authService.Signup(ctx, validSignupInput("alice"))
	require.NoError(t, err)

	account, err := fixtures.profileService.GetProfile(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	created, err := fixtures.authService.Signup(ctx, validSignupInput("alice"))
	require.NoError(t, err)

	// One past the highest assigned ID never resolves.
	_, err = fixtures.profileService.GetProfile(ctx, created.ID+1)

	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestProfileService_UpdateProfile_Success(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	created, err := fixtures.authService.Signup(ctx, validSignupInput("alice"))
	require.NoError(t, err)

	updated, err := fixtures.profileService.UpdateProfile(ctx, created.ID, created.ID, &usecase.UpdateProfileInput{
		FirstName:   strPtr("Alice"),
		PhoneNumber: strPtr("+886912345678"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "+886912345678", updated.PhoneNumber)
	// Untouched fields survive a partial update.
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "alice", updated.Username)
}

func TestProfileService_UpdateProfile_OtherAccountForbidden(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	alice, err := fixtures.authService.Signup(ctx, validSignupInput("alice"))
	require.NoError(t, err)
	bob, err := fixtures.authService.Signup(ctx, validSignupInput("bob"))
	require.NoError(t, err)

	_, err = fixtures.profileService.UpdateProfile(ctx, alice.ID, bob.ID, &usecase.UpdateProfileInput{
		FirstName: strPtr("Mallory"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Bob's profile is untouched.
	account, err := fixtures.profileService.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, account.FirstName)
}

func TestProfileService_UpdateProfile_InvalidEmail(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	created, err := fixtures.authService.Signup(ctx, validSignupInput("alice"))
	require.NoError(t, err)

	_, err = fixtures.profileService.UpdateProfile(ctx, created.ID, created.ID, &usecase.UpdateProfileInput{
		Email: strPtr("not-an-email"),
	})

	require.Error(t, err)
	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields(), "email")
}

func TestProfileService_GetPublicProfile_ExactFields(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	input := validSignupInput("alice")
	input.FirstName = "Alice"
	input.LastName = "Liddell"
	input.HomeAddress = "1 Rabbit Hole"
	input.PhoneNumber = "+44123456789"
	input.Latitude = "51.5"
	input.Longitude = "-0.12"
	created, err := fixtures.authService.Signup(ctx, input)
	require.NoError(t, err)

	profile, err := fixtures.profileService.GetPublicProfile(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, &usecase.PublicProfile{
		Username:    "alice",
		Email:       "alice@example.com",
		FirstName:   "Alice",
		LastName:    "Liddell",
		HomeAddress: "1 Rabbit Hole",
		PhoneNumber: "+44123456789",
	}, profile)
}

func TestProfileService_GetPublicProfile_NotFound(t *testing.T) {
	fixtures := createTestServices(t)

	_, err := fixtures.profileService.GetPublicProfile(context.Background(), 404)

	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestProfileService_ProfileQRCode(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	created, err := fixtures.authService.Signup(ctx, validSignupInput("alice"))
	require.NoError(t, err)

	png, err := fixtures.profileService.ProfileQRCode(ctx, created.ID)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 0x50, 0x4E, 0x47}))

	_, err = fixtures.profileService.ProfileQRCode(ctx, created.ID+1)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}
