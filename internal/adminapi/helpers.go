package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
	"github.com/greenvida/greenstore/pkg/common"
)

// InitRouter registers all admin endpoints. Call after webserver.Init.
func InitRouter() {
	registerProductRoutes()
	registerCategoryRoutes()
	registerShippingRateRoutes()
	registerOrderRoutes()
	registerOperatorRoutes()
	registerContentRoutes()
	registerArticleRoutes()
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{"error": errorBody{Code: code, Message: message, Detail: detail}})
}

type pagedBody struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedBody{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// requireAdmin gates handlers to super/admin operators; the order
// surface additionally admits dispatchers.
func requireAdmin(c echo.Context) error {
	return webserver.RequireLevel(c, domain.OprLevelSuper, domain.OprLevelAdmin)
}

func requireDispatcherOrAdmin(c echo.Context) error {
	return webserver.RequireLevel(c, domain.OprLevelSuper, domain.OprLevelAdmin, domain.OprLevelDispatcher)
}

// logAction records an operator action in the audit log
func logAction(c echo.Context, action, desc string) {
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   strconv.FormatInt(webserver.CurrentUserID(c), 10),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
