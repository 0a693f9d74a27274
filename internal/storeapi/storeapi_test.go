package storeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenvida/greenstore/config"
	"github.com/greenvida/greenstore/internal/app"
	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
)

func setupAPI(t *testing.T) (*app.Application, *gorm.DB) {
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
	return application, db
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

func registerUser(t *testing.T, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"secret-123","first_name":"Ana","last_name":"Torres"}`, email)
	rec := request(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	_, db := setupAPI(t)

	product := domain.Product{Name: "Aloe Gel", Slug: "aloe-gel", Price: decimal.NewFromInt(5000), Stock: 10}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&domain.ShippingRate{
		City:           "Bogotá",
		BasePrice:      decimal.NewFromInt(10000),
		ExtraUnitPrice: decimal.NewFromInt(500),
	}).Error)

	token := registerUser(t, "ana@example.org")

	// public catalog is open
	rec := request(t, http.MethodGet, "/api/v1/products/aloe-gel", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// cart requires auth
	rec = request(t, http.MethodGet, "/api/v1/store/cart", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(t, http.MethodPost, "/api/v1/store/cart/add", token,
		fmt.Sprintf(`{"product_id":%d,"quantity":2}`, product.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"quantity":2`)

	rec = request(t, http.MethodPost, "/api/v1/store/addresses", token,
		`{"recipient":"Ana Torres","street":"Calle 10 #4-21","city":"Bogotá","is_primary":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var addr struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &addr))

	rec = request(t, http.MethodPost, "/api/v1/store/orders", token,
		fmt.Sprintf(`{"address_id":%d,"payment_method":"card"}`, addr.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, domain.OrderPending, order.Status)

	// cart is empty afterwards
	rec = request(t, http.MethodGet, "/api/v1/store/cart", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lines":[]`)

	// stock is deducted
	var reloaded domain.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)

	rec = request(t, http.MethodGet, fmt.Sprintf("/api/v1/store/orders/%d", order.ID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// another user cannot read it
	otherToken := registerUser(t, "luis@example.org")
	rec = request(t, http.MethodGet, fmt.Sprintf("/api/v1/store/orders/%d", order.ID), otherToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutErrorsOverHTTP(t *testing.T) {
	_, db := setupAPI(t)
	token := registerUser(t, "ana@example.org")

	// empty cart
	rec := request(t, http.MethodPost, "/api/v1/store/orders", token, `{"address_id":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")

	product := domain.Product{Name: "Aloe Gel", Slug: "aloe-gel", Price: decimal.NewFromInt(5000), Stock: 1}
	require.NoError(t, db.Create(&product).Error)
	rec = request(t, http.MethodPost, "/api/v1/store/cart/add", token,
		fmt.Sprintf(`{"product_id":%d}`, product.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// address in a city with no coverage
	rec = request(t, http.MethodPost, "/api/v1/store/addresses", token,
		`{"recipient":"Ana","street":"Calle 10","city":"Leticia"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var addr struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &addr))

	rec = request(t, http.MethodPost, "/api/v1/store/orders", token,
		fmt.Sprintf(`{"address_id":%d}`, addr.ID))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no shipping coverage for Leticia")

	// more than stock at add time
	rec = request(t, http.MethodPost, "/api/v1/store/cart/add", token,
		fmt.Sprintf(`{"product_id":%d,"quantity":5}`, product.ID))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")
}

func TestFavoritesIdempotent(t *testing.T) {
	_, db := setupAPI(t)
	token := registerUser(t, "ana@example.org")

	product := domain.Product{Name: "Aloe Gel", Slug: "aloe-gel", Price: decimal.NewFromInt(5000), Stock: 1}
	require.NoError(t, db.Create(&product).Error)

	body := fmt.Sprintf(`{"product_id":%d}`, product.ID)
	rec := request(t, http.MethodPost, "/api/v1/store/favorites", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = request(t, http.MethodPost, "/api/v1/store/favorites", token, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&domain.Favorite{}).Count(&count)
	assert.EqualValues(t, 1, count)

	rec = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/store/favorites/%d", product.ID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/store/favorites/%d", product.ID), token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
