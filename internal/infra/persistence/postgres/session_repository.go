package postgres

import (
	"context"
	"time"

	"usermap/internal/domain/entity"
	"usermap/internal/domain/repository"
	"usermap/internal/errors"
	"usermap/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a session repository backed by GORM.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	sessionModel := fromSessionDomain(session)

	if err := r.db.WithContext(ctx).Create(sessionModel).Error; err != nil {
		return errors.Wrap(err, "failed to create session")
	}

	*session = *toSessionDomain(sessionModel)

	return nil
}

func (r *sessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	var sessionModel model.SessionModel
	if err := r.db.WithContext(ctx).First(&sessionModel, "token_hash = ?", tokenHash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session by token hash")
	}

	session := toSessionDomain(&sessionModel)
	if session.Expired(time.Now()) {
		return nil, repository.ErrSessionExpired
	}

	return session, nil
}

func (r *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	result := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&model.SessionModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete session by token hash")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) error {
	err := r.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&model.SessionModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete expired sessions")
	}

	return nil
}

func toSessionDomain(m *model.SessionModel) *entity.Session {
	return &entity.Session{
		ID:        m.ID,
		AccountID: m.AccountID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

func fromSessionDomain(session *entity.Session) *model.SessionModel {
	return &model.SessionModel{
		ID:        session.ID,
		AccountID: session.AccountID,
		TokenHash: session.TokenHash,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
}
