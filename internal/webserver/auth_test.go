package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenvida/greenstore/config"
	"github.com/greenvida/greenstore/internal/app"
	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/pkg/common"
)

func newTestServer(t *testing.T) *WebServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	application := app.NewApplication(config.DefaultAppConfig)
	application.OverrideDB(db)
	return NewWebServer(application)
}

func doJSON(s *WebServer, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func TestRegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"Ana@Example.org","password":"secret-123","first_name":"Ana","last_name":"Torres"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Token string `json:"token"`
		User  struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ana@example.org", created.User.Email)
	require.NotEmpty(t, created.Token)

	// password never leaves the server
	assert.NotContains(t, rec.Body.String(), "secret-123")
	assert.NotContains(t, rec.Body.String(), `"password"`)

	rec = doJSON(s, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"ana@example.org","password":"secret-123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var logged struct {
		Token string `json:"token"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &logged))

	rec = doJSON(s, http.MethodGet, "/api/v1/store/me", logged.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "ana@example.org")
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []string{
		`{"email":"","password":"secret-123","first_name":"A","last_name":"B"}`,
		`{"email":"not-an-email","password":"secret-123","first_name":"A","last_name":"B"}`,
		`{"email":"a@b.co","password":"short","first_name":"A","last_name":"B"}`,
		`{"email":"a@b.co","password":"secret-123","first_name":"","last_name":"B"}`,
	}
	for _, body := range cases {
		rec := doJSON(s, http.MethodPost, "/api/v1/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	body := `{"email":"ana@example.org","password":"secret-123","first_name":"Ana","last_name":"Torres"}`

	rec := doJSON(s, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(s, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(s, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"nobody@example.org","password":"whatever-1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStoreRoutesRequireUserScope(t *testing.T) {
	s := newTestServer(t)

	// no token
	rec := doJSON(s, http.MethodGet, "/api/v1/store/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// operator token on the store surface
	hashed, err := common.HashPassword("operator-pass")
	require.NoError(t, err)
	opr := domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: "admin",
		Password: hashed,
		Level:    domain.OprLevelSuper,
		Status:   common.ENABLED,
	}
	require.NoError(t, s.appc.DB().Create(&opr).Error)

	rec = doJSON(s, http.MethodPost, "/api/v1/admin/login", "",
		`{"username":"admin","password":"operator-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var logged struct {
		Token string `json:"token"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &logged))

	rec = doJSON(s, http.MethodGet, "/api/v1/store/me", logged.Token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
