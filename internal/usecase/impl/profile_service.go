package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "usermap/internal/delivery/context"
	"usermap/internal/domain/entity"
	domainerrors "usermap/internal/domain/errors"
	"usermap/internal/domain/repository"
	"usermap/internal/domain/service"
	"usermap/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager     repository.TransactionManager
	accountRepo   repository.AccountRepository
	qrcodeService service.QRCodeService
	logger        *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	AccountRepo   repository.AccountRepository
	QRCodeService service.QRCodeService
	Logger        *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:     params.TxManager,
		accountRepo:   params.AccountRepo,
		qrcodeService: params.QRCodeService,
		logger:        params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves the full profile of an account.
func (srv *profileService) GetProfile(ctx context.Context, accountID int64) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		srv.log(ctx).Error("Failed to load profile", slog.Int64("accountID", accountID), slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "profile lookup")
	}

	return account, nil
}

// UpdateProfile applies a partial update to the caller's own profile inside
// a transaction. Editing any other account is forbidden.
func (srv *profileService) UpdateProfile(ctx context.Context, sessionAccountID, targetID int64, input *usecase.UpdateProfileInput) (*entity.Account, error) {
	if sessionAccountID != targetID {
		srv.log(ctx).Warn("Blocked cross-account profile edit",
			slog.Int64("sessionAccountID", sessionAccountID),
			slog.Int64("targetID", targetID),
		)

		return nil, domainerrors.ErrForbidden
	}

	if err := validateProfileInput(input); err != nil {
		return nil, err
	}

	var updated *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, findErr := accountRepo.FindByID(ctx, targetID)
		if findErr != nil {
			return findErr
		}

		applyProfileInput(account, input)
		if updateErr := accountRepo.Update(ctx, account); updateErr != nil {
			return updateErr
		}
		updated = account

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		srv.log(ctx).Error("Failed to execute profile update transaction", slog.Int64("accountID", targetID), slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "profile update")
	}

	srv.log(ctx).Info("Profile updated", slog.Int64("accountID", targetID))

	return updated, nil
}

// GetPublicProfile retrieves the public view of a profile.
func (srv *profileService) GetPublicProfile(ctx context.Context, accountID int64) (*usecase.PublicProfile, error) {
	account, err := srv.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &usecase.PublicProfile{
		Username:    account.Username,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		HomeAddress: account.HomeAddress,
		PhoneNumber: account.PhoneNumber,
	}, nil
}

// ProfileQRCode renders a PNG QR code linking to the profile page. The
// account must exist; the code itself only carries the URL.
func (srv *profileService) ProfileQRCode(ctx context.Context, accountID int64) ([]byte, error) {
	if _, err := srv.GetProfile(ctx, accountID); err != nil {
		return nil, err
	}

	png, err := srv.qrcodeService.GenerateProfileQR(accountID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate profile QR code", slog.Int64("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate profile QR code")
	}

	return png, nil
}

func validateProfileInput(input *usecase.UpdateProfileInput) error {
	fields := map[string]string{}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			fields["email"] = "This field is required."
		} else if inputValidator.Var(email, "email") != nil {
			fields["email"] = "Enter a valid email address."
		}
	}

	if len(fields) > 0 {
		return domainerrors.NewValidationError(fields)
	}

	return nil
}

func applyProfileInput(account *entity.Account, input *usecase.UpdateProfileInput) {
	if input.Email != nil {
		account.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		account.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		account.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.HomeAddress != nil {
		account.HomeAddress = strings.TrimSpace(*input.HomeAddress)
	}
	if input.PhoneNumber != nil {
		account.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
}
