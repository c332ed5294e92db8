// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	deliverycontext "usermap/internal/delivery/context"
	"usermap/internal/domain/entity"
	domainerrors "usermap/internal/domain/errors"
	"usermap/internal/domain/repository"
	"usermap/internal/domain/service"
	"usermap/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword is hashed once at construction and compared against when the
// username is unknown, so that path costs a bcrypt verification at the same
// cost factor as a real one.
const dummyPassword = "not-a-real-password"

const maxUsernameLength = 150

var inputValidator = validator.New()

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	sessionRepo  repository.SessionRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	dummyHash    string
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	SessionRepo  repository.SessionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) (usecase.AuthUsecase, error) {
	dummyHash, err := params.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare dummy credential hash")
	}

	return &authService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		sessionRepo:  params.SessionRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		dummyHash:    dummyHash,
		logger:       params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup validates the form input and creates the account inside a
// transaction so the uniqueness pre-check and the insert see the same state.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*entity.Account, error) {
	fields := map[string]string{}

	username := strings.TrimSpace(input.Username)
	switch {
	case username == "":
		fields["username"] = "This field is required."
	case len(username) > maxUsernameLength:
		fields["username"] = "Username is too long."
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		fields["email"] = "This field is required."
	} else if inputValidator.Var(email, "email") != nil {
		fields["email"] = "Enter a valid email address."
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		fields["password"] = err.Error()
	}
	if input.Password != input.PasswordConfirm {
		fields["password_confirm"] = "The two password fields do not match."
	}

	location := validateLocationInput(input.Latitude, input.Longitude, fields)

	if len(fields) > 0 {
		return nil, domainerrors.NewValidationError(fields)
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash signup password", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("signup")
	}

	account := &entity.Account{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		HomeAddress:  strings.TrimSpace(input.HomeAddress),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Location:     location,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, findErr := accountRepo.FindByUsername(ctx, username)
		if findErr == nil {
			return repository.ErrUsernameTaken
		}
		if !errors.Is(findErr, repository.ErrAccountNotFound) {
			return errors.Wrap(findErr, "failed to check username availability")
		}

		return accountRepo.Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, domainerrors.NewValidationError(map[string]string{
				"username": "A user with that username already exists.",
			})
		}
		srv.log(ctx).Error("Failed to execute signup transaction", slog.String("username", username), slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "signup")
	}

	srv.log(ctx).Info("Account created", slog.Int64("accountID", account.ID), slog.String("username", username))

	return account, nil
}

// Login verifies the credentials and opens a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller, and the unknown path
// still pays for a bcrypt comparison.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	account, err := srv.accountRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.hasher.Check(input.Password, srv.dummyHash)

			return nil, domainerrors.ErrInvalidCredentials
		}
		srv.log(ctx).Error("Failed to look up account for login", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "login lookup")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	sessionID := uuid.New()
	token, err := srv.tokenService.IssueToken(account.ID, sessionID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Int64("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	session := &entity.Session{
		ID:        sessionID,
		AccountID: account.ID,
		TokenHash: srv.tokenService.HashToken(token),
		ExpiresAt: time.Now().Add(srv.tokenService.SessionDuration()),
	}
	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		srv.log(ctx).Error("Failed to persist session", slog.Int64("accountID", account.ID), slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "session create")
	}

	srv.log(ctx).Info("Login succeeded", slog.Int64("accountID", account.ID), slog.String("sessionID", sessionID.String()))

	return &usecase.LoginOutput{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Account:   account,
	}, nil
}

// Logout deletes the session row named by the token. The token itself may
// still be within its signed lifetime; without the row it no longer works.
func (srv *authService) Logout(ctx context.Context, token string) error {
	tokenHash := srv.tokenService.HashToken(token)

	err := srv.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domainerrors.ErrSessionInvalid
		}
		srv.log(ctx).Error("Failed to delete session", slog.Any("error", err))

		return domainerrors.NewDatabaseExecuteError(err, "logout")
	}

	srv.log(ctx).Debug("Session ended")

	return nil
}

// Authenticate resolves a token to an account. The signature check alone is
// not enough: the session row must still exist, be unexpired, and agree with
// the token's claims.
func (srv *authService) Authenticate(ctx context.Context, token string) (*entity.Account, error) {
	claims, err := srv.tokenService.ParseToken(token)
	if err != nil {
		return nil, domainerrors.ErrSessionInvalid
	}

	session, err := srv.sessionRepo.FindByTokenHash(ctx, srv.tokenService.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionExpired) {
			return nil, domainerrors.ErrSessionInvalid
		}
		srv.log(ctx).Error("Failed to look up session", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "session lookup")
	}

	if session.AccountID != claims.AccountID || session.ID != claims.SessionID {
		srv.log(ctx).Warn("Session row does not match token claims",
			slog.Int64("sessionAccountID", session.AccountID),
			slog.Int64("claimAccountID", claims.AccountID),
		)

		return nil, domainerrors.ErrSessionInvalid
	}

	account, err := srv.accountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrSessionInvalid
		}
		srv.log(ctx).Error("Failed to load session account", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "session account lookup")
	}

	return account, nil
}

// validateLocationInput parses the optional coordinate pair from its raw
// form values. Both must be present or both empty; problems land in fields.
func validateLocationInput(latitudeRaw, longitudeRaw string, fields map[string]string) *orb.Point {
	latitudeRaw = strings.TrimSpace(latitudeRaw)
	longitudeRaw = strings.TrimSpace(longitudeRaw)

	if latitudeRaw == "" && longitudeRaw == "" {
		return nil
	}
	if latitudeRaw == "" {
		fields["latitude"] = "Latitude and longitude must be provided together."

		return nil
	}
	if longitudeRaw == "" {
		fields["longitude"] = "Latitude and longitude must be provided together."

		return nil
	}

	latitude, latErr := strconv.ParseFloat(latitudeRaw, 64)
	latOK := latErr == nil && !math.IsNaN(latitude) && !math.IsInf(latitude, 0)
	if !latOK {
		fields["latitude"] = "Enter a number."
	}
	longitude, lonErr := strconv.ParseFloat(longitudeRaw, 64)
	lonOK := lonErr == nil && !math.IsNaN(longitude) && !math.IsInf(longitude, 0)
	if !lonOK {
		fields["longitude"] = "Enter a number."
	}
	if !latOK || !lonOK {
		return nil
	}

	location, err := entity.NewLocation(longitude, latitude)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrLatitudeOutOfRange):
			fields["latitude"] = "Latitude must be between -90 and 90."
		case errors.Is(err, entity.ErrLongitudeOutOfRange):
			fields["longitude"] = "Longitude must be between -180 and 180."
		}

		return nil
	}

	return location
}
