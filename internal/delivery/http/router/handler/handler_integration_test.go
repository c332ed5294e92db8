package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"usermap/config"
	"usermap/internal/delivery/http/middleware"
	"usermap/internal/delivery/http/router"
	"usermap/internal/delivery/http/router/handler"
	"usermap/internal/delivery/http/validator"
	infraauth "usermap/internal/infra/auth"
	"usermap/internal/infra/geomap"
	"usermap/internal/infra/persistence/model"
	"usermap/internal/infra/persistence/postgres"
	infraqrcode "usermap/internal/infra/qrcode"
	"usermap/internal/usecase/impl"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full HTTP surface against an in-memory database.
func newTestApp(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AccountModel{}, &model.SessionModel{}))

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: 4,
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

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hasher := infraauth.NewBcryptHasher(cfg)
	tokenService, err := infraauth.NewSessionTokenService(cfg)
	require.NoError(t, err)
	mapRenderer, err := geomap.NewRenderer(cfg)
	require.NoError(t, err)

	accountRepo := postgres.NewAccountRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	txManager := postgres.NewTransactionManager(db)

	authService, err := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    txManager,
		AccountRepo:  accountRepo,
		SessionRepo:  sessionRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       testLogger,
	})
	require.NoError(t, err)
	profileService := impl.NewProfileService(impl.ProfileServiceParams{
		TxManager:     txManager,
		AccountRepo:   accountRepo,
		QRCodeService: infraqrcode.NewQRCodeService(cfg),
		Logger:        testLogger,
	})
	mapService := impl.NewMapService(impl.MapServiceParams{
		AccountRepo: accountRepo,
		Renderer:    mapRenderer,
		Logger:      testLogger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(testLogger).HandleHTTPError

	appRouter := router.NewRouter(router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(authService, testLogger),
		ProfileHandler: handler.NewProfileHandler(profileService, testLogger),
		MapHandler:     handler.NewMapHandler(mapService, testLogger),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
	})
	appRouter.RegisterRoutes(e)

	return e
}

func postForm(e *echo.Echo, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func get(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func signupForm(username string) url.Values {
	return url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {"correct horse battery"},
		"password_confirm": {"correct horse battery"},
	}
}

// signupAndLogin registers an account and returns its session cookie and ID.
func signupAndLogin(t *testing.T, e *echo.Echo, username string, form url.Values) (*http.Cookie, int64) {
	t.Helper()

	rec := postForm(e, "/signup", form)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())

	rec = postForm(e, "/login", url.Values{
		"username": {username},
		"password": {form.Get("password")},
	})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login should set the session cookie")

	accountID := lookupAccountID(t, e, username)

	return sessionCookie, accountID
}

// lookupAccountID resolves a username to its assigned ID via the public API.
func lookupAccountID(t *testing.T, e *echo.Echo, username string) int64 {
	t.Helper()

	// Walk IDs from 1; test databases only ever hold a handful of accounts.
	for id := int64(1); id < 100; id++ {
		rec := get(e, "/user/"+strconv.FormatInt(id, 10)+"/json")
		if rec.Code != http.StatusOK {
			continue
		}
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		if body["username"] == username {
			return id
		}
	}
	t.Fatalf("account %q not found", username)

	return 0
}

func TestSignup_RedirectsToFrontPage(t *testing.T) {
	e := newTestApp(t)

	rec := postForm(e, "/signup", signupForm("alice"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestSignup_FieldErrorsKeepStatus200(t *testing.T) {
	e := newTestApp(t)

	form := signupForm("alice")
	form.Set("email", "not-an-email")
	form.Set("password_confirm", "different password")

	rec := postForm(e, "/signup", form)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Fields  map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password_confirm")
}

func TestSignup_DuplicateUsername(t *testing.T) {
	e := newTestApp(t)

	require.Equal(t, http.StatusFound, postForm(e, "/signup", signupForm("alice")).Code)

	rec := postForm(e, "/signup", signupForm("alice"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A user with that username already exists.")
}

func TestLogin_BadCredentialsSameMessage(t *testing.T) {
	e := newTestApp(t)

	require.Equal(t, http.StatusFound, postForm(e, "/signup", signupForm("alice")).Code)

	wrongPassword := postForm(e, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrong password!"},
	})
	unknownUser := postForm(e, "/login", url.Values{
		"username": {"nobody"},
		"password": {"wrong password!"},
	})

	assert.Equal(t, http.StatusOK, wrongPassword.Code)
	assert.Equal(t, http.StatusOK, unknownUser.Code)
	assert.Contains(t, wrongPassword.Body.String(), "Invalid username or password")
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestGatedRoutes_RedirectWithoutSession(t *testing.T) {
	e := newTestApp(t)

	for _, path := range []string{"/", "/map/geojson", "/logout", "/profile/1", "/profile/1/edit", "/profile/1/qrcode"} {
		rec := get(e, path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation), path)
	}
}

func TestUserMap_RendersMarkers(t *testing.T) {
	e := newTestApp(t)

	form := signupForm("alice")
	form.Set("latitude", "25.03")
	form.Set("longitude", "121.56")
	cookie, _ := signupAndLogin(t, e, "alice", form)

	rec := get(e, "/", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, rec.Body.String(), "L.geoJSON")
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestUserMap_EmptyStill200(t *testing.T) {
	e := newTestApp(t)

	cookie, _ := signupAndLogin(t, e, "alice", signupForm("alice"))

	rec := get(e, "/", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No users have shared a location yet.")
}

func TestMapGeoJSON(t *testing.T) {
	e := newTestApp(t)

	form := signupForm("alice")
	form.Set("latitude", "25.03")
	form.Set("longitude", "121.56")
	cookie, accountID := signupAndLogin(t, e, "alice", form)

	rec := get(e, "/map/geojson", cookie)

	require.Equal(t, http.StatusOK, rec.Code)

	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	assert.Equal(t, "FeatureCollection", collection.Type)
	require.Len(t, collection.Features, 1)
	assert.InDelta(t, 121.56, collection.Features[0].Geometry.Coordinates[0], 1e-9)
	assert.InDelta(t, 25.03, collection.Features[0].Geometry.Coordinates[1], 1e-9)
	assert.EqualValues(t, accountID, collection.Features[0].Properties["id"])
}

func TestProfile_ViewAndNotFound(t *testing.T) {
	e := newTestApp(t)

	cookie, accountID := signupAndLogin(t, e, "alice", signupForm("alice"))

	rec := get(e, "/profile/"+strconv.FormatInt(accountID, 10), cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = get(e, "/profile/"+strconv.FormatInt(accountID+1, 10), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileEdit_SelfOnly(t *testing.T) {
	e := newTestApp(t)

	aliceCookie, aliceID := signupAndLogin(t, e, "alice", signupForm("alice"))
	require.Equal(t, http.StatusFound, postForm(e, "/signup", signupForm("bob")).Code)
	bobID := lookupAccountID(t, e, "bob")

	// Editing someone else's profile is forbidden.
	rec := postForm(e, "/profile/"+strconv.FormatInt(bobID, 10)+"/edit", url.Values{
		"first_name": {"Mallory"},
	}, aliceCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Editing your own profile redirects back to it.
	rec = postForm(e, "/profile/"+strconv.FormatInt(aliceID, 10)+"/edit", url.Values{
		"first_name": {"Alice"},
	}, aliceCookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/"+strconv.FormatInt(aliceID, 10), rec.Header().Get(echo.HeaderLocation))

	rec = get(e, "/profile/"+strconv.FormatInt(aliceID, 10), aliceCookie)
	assert.Contains(t, rec.Body.String(), "Alice")
}

func TestProfileEdit_InvalidEmailKeepsStatus200(t *testing.T) {
	e := newTestApp(t)

	cookie, accountID := signupAndLogin(t, e, "alice", signupForm("alice"))

	rec := postForm(e, "/profile/"+strconv.FormatInt(accountID, 10)+"/edit", url.Values{
		"email": {"not-an-email"},
	}, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}

func TestProfileQRCode(t *testing.T) {
	e := newTestApp(t)

	cookie, accountID := signupAndLogin(t, e, "alice", signupForm("alice"))

	rec := get(e, "/profile/"+strconv.FormatInt(accountID, 10)+"/qrcode", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestPublicProfileJSON_ExactSixFields(t *testing.T) {
	e := newTestApp(t)

	form := signupForm("alice")
	form.Set("first_name", "Alice")
	form.Set("latitude", "25.03")
	form.Set("longitude", "121.56")
	require.Equal(t, http.StatusFound, postForm(e, "/signup", form).Code)
	accountID := lookupAccountID(t, e, "alice")

	rec := get(e, "/user/"+strconv.FormatInt(accountID, 10)+"/json")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 6)
	for _, key := range []string{"username", "email", "first_name", "last_name", "home_address", "phone_number"} {
		assert.Contains(t, body, key)
	}
	// The coordinates never leak through the public API.
	assert.NotContains(t, body, "latitude")
	assert.NotContains(t, body, "longitude")
}

func TestPublicProfileJSON_NotFoundBody(t *testing.T) {
	e := newTestApp(t)

	rec := get(e, "/user/12345/json")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "User Does Not Exists"}`, rec.Body.String())
}

func TestLogout_InvalidatesSession(t *testing.T) {
	e := newTestApp(t)

	cookie, _ := signupAndLogin(t, e, "alice", signupForm("alice"))

	rec := get(e, "/logout", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// The old cookie no longer opens gated routes.
	rec = get(e, "/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestBearerTokenAccepted(t *testing.T) {
	e := newTestApp(t)

	cookie, _ := signupAndLogin(t, e, "alice", signupForm("alice"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	e := newTestApp(t)

	rec := get(e, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
