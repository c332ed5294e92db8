package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"usermap/config"
	"usermap/internal/domain/service"
	infraauth "usermap/internal/infra/auth"
	"usermap/internal/infra/geomap"
	"usermap/internal/infra/persistence/model"
	"usermap/internal/infra/persistence/postgres"
	infraqrcode "usermap/internal/infra/qrcode"
	"usermap/internal/usecase"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServiceTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: 4, // minimum cost keeps the test suite fast
			SessionTTL: time.Hour,
		},
		PasswordStrength: &config.PasswordStrengthConfig{MinLength: 8},
		Map: &config.MapConfig{
			DefaultZoom: 13,
			TileURL:     "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		},
		QRCode: &config.QRCodeConfig{
			Size:                 128,
			ErrorCorrectionLevel: "medium",
			BaseURL:              "http://localhost:8080",
		},
	}
	cfg.SecretKey.Session = "test-session-secret"

	return cfg
}

// serviceFixtures wires the usecases against a throwaway in-memory database
// with the real hasher, token service, and renderer behind them.
type serviceFixtures struct {
	db             *gorm.DB
	authService    usecase.AuthUsecase
	profileService usecase.ProfileUsecase
	mapService     usecase.MapUsecase
	tokenService   service.TokenService
}

func createTestServices(t *testing.T) serviceFixtures {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AccountModel{}, &model.SessionModel{}))

	cfg := newServiceTestConfig()
	testLogger := newDiscardLogger()

	hasher := infraauth.NewBcryptHasher(cfg)
	tokenService, err := infraauth.NewSessionTokenService(cfg)
	require.NoError(t, err)
	mapRenderer, err := geomap.NewRenderer(cfg)
	require.NoError(t, err)

	accountRepo := postgres.NewAccountRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	txManager := postgres.NewTransactionManager(db)

	authService, err := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		AccountRepo:  accountRepo,
		SessionRepo:  sessionRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       testLogger,
	})
	require.NoError(t, err)
	profileService := NewProfileService(ProfileServiceParams{
		TxManager:     txManager,
		AccountRepo:   accountRepo,
		QRCodeService: infraqrcode.NewQRCodeService(cfg),
		Logger:        testLogger,
	})
	mapService := NewMapService(MapServiceParams{
		AccountRepo: accountRepo,
		Renderer:    mapRenderer,
		Logger:      testLogger,
	})

	return serviceFixtures{
		db:             db,
		authService:    authService,
		profileService: profileService,
		mapService:     mapService,
		tokenService:   tokenService,
	}
}

func validSignupInput(username string) *usecase.SignupInput {
	return &usecase.SignupInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "correct horse battery",
		PasswordConfirm: "correct horse battery",
	}
}
