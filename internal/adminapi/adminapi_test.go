package adminapi

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
	"github.com/greenvida/greenstore/internal/webserver"
	"github.com/greenvida/greenstore/pkg/common"
)

func setupAdmin(t *testing.T) (*gorm.DB, string) {
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
	webserver.Init(application)
	InitRouter()

	hashed, err := common.HashPassword("operator-pass")
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: "admin",
		Password: hashed,
		Level:    domain.OprLevelSuper,
		Status:   common.ENABLED,
	}).Error)

	rec := request(t, http.MethodPost, "/api/v1/admin/login", "",
		`{"username":"admin","password":"operator-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var logged struct {
		Token string `json:"token"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &logged))
	return db, logged.Token
}

func request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	webserver.Echo().ServeHTTP(rec, req)
	return rec
}

func TestAdminCreateRespondsCreated(t *testing.T) {
	db, token := setupAdmin(t)

	rec := request(t, http.MethodPost, "/api/v1/admin/products", token,
		`{"name":"Aloe Gel","price":"5000","stock":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"aloe-gel"`)

	rec = request(t, http.MethodPost, "/api/v1/admin/shipping-rates", token,
		`{"city":"Bogotá","base_price":"10000","extra_unit_price":"500"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// re-reads of the created rows stay 200
	var p domain.Product
	require.NoError(t, db.Where("slug = ?", "aloe-gel").First(&p).Error)
	rec = request(t, http.MethodGet, "/api/v1/admin/products", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminDuplicateSlugConflict(t *testing.T) {
	_, token := setupAdmin(t)

	body := `{"name":"Aloe Gel","price":"5000","stock":10}`
	rec := request(t, http.MethodPost, "/api/v1/admin/products", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = request(t, http.MethodPost, "/api/v1/admin/products", token, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
