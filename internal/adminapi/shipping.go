package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
)

func registerShippingRateRoutes() {
	webserver.AdminGET("/shipping-rates", listShippingRates)
	webserver.AdminGET("/shipping-rates/:id", getShippingRate)
	webserver.AdminPOST("/shipping-rates", createShippingRate)
	webserver.AdminPUT("/shipping-rates/:id", updateShippingRate)
	webserver.AdminDELETE("/shipping-rates/:id", deleteShippingRate)
}

type shippingRatePayload struct {
	City           string          `json:"city"`
	Region         string          `json:"region"`
	BasePrice      decimal.Decimal `json:"base_price"`
	ExtraUnitPrice decimal.Decimal `json:"extra_unit_price"`
}

func listShippingRates(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.ShippingRate{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("city ILIKE ? OR region ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(city) LIKE ? OR LOWER(region) LIKE ?", lq, lq)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query shipping rates", err.Error())
	}

	var rows []domain.ShippingRate
	if err := db.Order("city").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query shipping rates", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getShippingRate(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid shipping rate ID", nil)
	}
	var rate domain.ShippingRate
	if err := GetDB(c).Where("id = ?", id).First(&rate).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Shipping rate not found", nil)
	}
	return ok(c, rate)
}

func createShippingRate(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload shippingRatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse shipping rate", err.Error())
	}
	payload.City = strings.TrimSpace(payload.City)
	if payload.City == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "City is required", nil)
	}
	if payload.BasePrice.IsNegative() || payload.ExtraUnitPrice.IsNegative() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Prices must be >= 0", nil)
	}

	// city lookup at checkout is case-insensitive, so uniqueness is too
	var dup int64
	GetDB(c).Model(&domain.ShippingRate{}).Where("LOWER(city) = ?", strings.ToLower(payload.City)).Count(&dup)
	if dup > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_CITY", "A rate for this city already exists", nil)
	}

	now := time.Now()
	rate := domain.ShippingRate{
		City:           payload.City,
		Region:         strings.TrimSpace(payload.Region),
		BasePrice:      payload.BasePrice,
		ExtraUnitPrice: payload.ExtraUnitPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := GetDB(c).Create(&rate).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create shipping rate", err.Error())
	}
	return created(c, rate)
}

func updateShippingRate(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid shipping rate ID", nil)
	}
	var rate domain.ShippingRate
	if err := GetDB(c).Where("id = ?", id).First(&rate).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Shipping rate not found", nil)
	}

	var payload shippingRatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse shipping rate", err.Error())
	}
	if payload.BasePrice.IsNegative() || payload.ExtraUnitPrice.IsNegative() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Prices must be >= 0", nil)
	}
	if city := strings.TrimSpace(payload.City); city != "" && !strings.EqualFold(city, rate.City) {
		var dup int64
		GetDB(c).Model(&domain.ShippingRate{}).Where("LOWER(city) = ? AND id <> ?", strings.ToLower(city), id).Count(&dup)
		if dup > 0 {
			return fail(c, http.StatusConflict, "DUPLICATE_CITY", "A rate for this city already exists", nil)
		}
		rate.City = city
	}
	if region := strings.TrimSpace(payload.Region); region != "" {
		rate.Region = region
	}
	rate.BasePrice = payload.BasePrice
	rate.ExtraUnitPrice = payload.ExtraUnitPrice
	rate.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&rate).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update shipping rate", err.Error())
	}
	return ok(c, rate)
}

func deleteShippingRate(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid shipping rate ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.ShippingRate{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete shipping rate", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
