package postgres

import (
	"context"

	"usermap/internal/domain/entity"
	"usermap/internal/domain/repository"
	"usermap/internal/errors"
	"usermap/internal/infra/persistence/model"

	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository backed by GORM.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountModel := fromAccountDomain(account)

	if err := r.db.WithContext(ctx).Create(accountModel).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrUsernameTaken, account.Username)
		}

		return errors.Wrap(err, "failed to create account")
	}

	*account = *toAccountDomain(accountModel)

	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	var accountModel model.AccountModel
	if err := r.db.WithContext(ctx).First(&accountModel, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountModel), nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountModel model.AccountModel
	if err := r.db.WithContext(ctx).First(&accountModel, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by username")
	}

	return toAccountDomain(&accountModel), nil
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountModel := fromAccountDomain(account)

	// Update with an explicit column list so clearing the location writes
	// NULLs instead of being skipped as a zero value.
	result := r.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Select("Username", "PasswordHash", "Email", "FirstName", "LastName",
			"HomeAddress", "PhoneNumber", "Longitude", "Latitude", "UpdatedAt").
		Updates(accountModel)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return errors.Wrap(repository.ErrUsernameTaken, account.Username)
		}

		return errors.Wrap(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) FindLocated(ctx context.Context) ([]*entity.Account, error) {
	var accountModels []model.AccountModel
	err := r.db.WithContext(ctx).
		Where("longitude IS NOT NULL AND latitude IS NOT NULL").
		Order("id ASC").
		Find(&accountModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list located accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountModels))
	for i := range accountModels {
		accounts = append(accounts, toAccountDomain(&accountModels[i]))
	}

	return accounts, nil
}

func toAccountDomain(m *model.AccountModel) *entity.Account {
	account := &entity.Account{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		HomeAddress:  m.HomeAddress,
		PhoneNumber:  m.PhoneNumber,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Longitude != nil && m.Latitude != nil {
		point := orb.Point{*m.Longitude, *m.Latitude}
		account.Location = &point
	}

	return account
}

func fromAccountDomain(account *entity.Account) *model.AccountModel {
	accountModel := &model.AccountModel{
		ID:           account.ID,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Email:        account.Email,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		HomeAddress:  account.HomeAddress,
		PhoneNumber:  account.PhoneNumber,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if account.Location != nil {
		lon := account.Location.Lon()
		lat := account.Location.Lat()
		accountModel.Longitude = &lon
		accountModel.Latitude = &lat
	}

	return accountModel
}
