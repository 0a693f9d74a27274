package storeapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/store"
	"github.com/greenvida/greenstore/internal/webserver"
)

// InitRouter registers the public catalog and the authenticated store
// endpoints. Call after webserver.Init.
func InitRouter() {
	registerCatalogRoutes()
	registerContentRoutes()
	registerCartRoutes()
	registerAddressRoutes()
	registerOrderRoutes()
	registerFavoriteRoutes()
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]interface{}{"error": errorBody{Code: code, Message: message}})
}

// serviceError maps store-layer errors onto HTTP responses. Anything
// that is not a validation or not-found error is an internal failure
// and goes back opaque.
func serviceError(c echo.Context, err error) error {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": errorBody{Code: "VALIDATION_ERROR", Message: ve.Message, Field: ve.Field},
		})
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", nf.Error())
	}
	zap.L().Error("store request failed",
		zap.String("path", c.Request().URL.Path),
		zap.Error(err))
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	return page, pageSize
}
