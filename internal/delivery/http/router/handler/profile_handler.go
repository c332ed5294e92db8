package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"usermap/internal/delivery/http/middleware"
	"usermap/internal/delivery/http/response"
	"usermap/internal/domain/entity"
	domainerrors "usermap/internal/domain/errors"
	"usermap/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// publicProfileNotFoundBody is the exact 404 body of the public profile API.
var publicProfileNotFoundBody = map[string]string{"error": "User Does Not Exists"}

// ProfileHandler holds dependencies for profile view and edit handlers.
type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
	logger         *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(profileUsecase usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		logger:         logger,
	}
}

// profileView is the session-gated profile page payload. Unlike the public
// JSON API it includes the coordinates, but never the password hash.
type profileView struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	HomeAddress string   `json:"home_address"`
	PhoneNumber string   `json:"phone_number"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

func newProfileView(account *entity.Account) *profileView {
	view := &profileView{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		HomeAddress: account.HomeAddress,
		PhoneNumber: account.PhoneNumber,
	}
	if account.HasLocation() {
		lat := account.Location.Lat()
		lon := account.Location.Lon()
		view.Latitude = &lat
		view.Longitude = &lon
	}

	return view
}

// GetProfile renders the profile page of any account for a logged-in user.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return domainerrors.ErrAccountNotFound
	}

	account, err := h.profileUsecase.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileView(account), "")
}

// EditProfileForm returns the editable snapshot of the caller's own profile.
func (h *ProfileHandler) EditProfileForm(c echo.Context) error {
	targetID, err := parseAccountID(c)
	if err != nil {
		return domainerrors.ErrAccountNotFound
	}

	sessionAccountID, ok := middleware.AccountID(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}
	if sessionAccountID != targetID {
		return domainerrors.ErrForbidden
	}

	account, err := h.profileUsecase.GetProfile(c.Request().Context(), targetID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileView(account), "Edit profile")
}

// UpdateProfile handles the edit form submission for the caller's own
// profile. Field errors re-render with status 200; success redirects back
// to the profile page.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	targetID, err := parseAccountID(c)
	if err != nil {
		return domainerrors.ErrAccountNotFound
	}

	sessionAccountID, ok := middleware.AccountID(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	_, err = h.profileUsecase.UpdateProfile(c.Request().Context(), sessionAccountID, targetID, &input)
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) {
			return response.FormErrors(c, validationErr.Fields())
		}

		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusFound, "/profile/"+strconv.FormatInt(targetID, 10))
}

// ProfileQRCode serves a PNG QR code linking to the profile page.
func (h *ProfileHandler) ProfileQRCode(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return domainerrors.ErrAccountNotFound
	}

	png, err := h.profileUsecase.ProfileQRCode(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// PublicProfile serves the unauthenticated profile JSON: exactly the six
// public fields, or the fixed error body with a 404.
func (h *ProfileHandler) PublicProfile(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, publicProfileNotFoundBody)
	}

	profile, err := h.profileUsecase.GetPublicProfile(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, publicProfileNotFoundBody)
		}

		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, profile)
}

func parseAccountID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid account id")
	}

	return id, nil
}
