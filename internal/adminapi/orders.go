package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
)

func registerOrderRoutes() {
	webserver.AdminGET("/orders", listOrders)
	webserver.AdminGET("/orders/export", exportOrders)
	webserver.AdminGET("/orders/:id", getOrder)
	webserver.AdminPUT("/orders/:id/status", updateOrderStatus)
}

// allowed status transitions; CANCELLED is reachable from any state
var statusTransitions = map[string][]string{
	domain.OrderPending: {domain.OrderPaid, domain.OrderCancelled},
	domain.OrderPaid:    {domain.OrderShipped, domain.OrderCancelled},
	domain.OrderShipped: {domain.OrderCancelled},
}

func filteredOrders(c echo.Context) (*int64, []domain.Order, error) {
	db := GetDB(c).Model(&domain.Order{})

	if status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); status != "" {
		db = db.Where("status = ?", status)
	}
	if uid := strings.TrimSpace(c.QueryParam("user_id")); uid != "" {
		db = db.Where("user_id = ?", uid)
	}
	// from/to accept anything dateparse can read (2024-01-02, 02/01/2024, RFC3339 ...)
	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		t, err := dateparse.ParseAny(from)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date: %s", from)
		}
		db = db.Where("created_at >= ?", t)
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		t, err := dateparse.ParseAny(to)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date: %s", to)
		}
		db = db.Where("created_at < ?", t)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize := parsePagination(c)
	var rows []domain.Order
	err := db.Preload("Lines").Preload("Address").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	return &total, rows, nil
}

func listOrders(c echo.Context) error {
	if err := requireDispatcherOrAdmin(c); err != nil {
		return err
	}
	total, rows, err := filteredOrders(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", "Failed to query orders", err.Error())
	}
	page, pageSize := parsePagination(c)
	return paged(c, rows, *total, page, pageSize)
}

func getOrder(c echo.Context) error {
	if err := requireDispatcherOrAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Preload("Lines").Preload("Address").Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	return ok(c, order)
}

type orderStatusPayload struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func updateOrderStatus(c echo.Context) error {
	if err := requireDispatcherOrAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}

	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}
	next := strings.ToUpper(strings.TrimSpace(payload.Status))

	allowed := false
	for _, s := range statusTransitions[order.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return fail(c, http.StatusBadRequest, "INVALID_TRANSITION",
			fmt.Sprintf("Cannot move order from %s to %s", order.Status, next), nil)
	}

	updates := map[string]interface{}{"status": next, "updated_at": time.Now()}
	if payload.TransactionID != "" {
		updates["transaction_id"] = payload.TransactionID
	}
	if err := GetDB(c).Model(&order).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}

	logAction(c, "order.status", fmt.Sprintf("order %d %s -> %s", order.ID, order.Status, next))
	GetDB(c).Preload("Lines").Preload("Address").First(&order, id)
	return ok(c, order)
}

type orderExportRow struct {
	ID        int64  `csv:"id"`
	UserID    int64  `csv:"user_id"`
	Status    string `csv:"status"`
	Subtotal  string `csv:"subtotal"`
	Shipping  string `csv:"shipping"`
	Total     string `csv:"total"`
	City      string `csv:"city"`
	CreatedAt string `csv:"created_at"`
}

func exportOrders(c echo.Context) error {
	if err := requireDispatcherOrAdmin(c); err != nil {
		return err
	}
	_, rows, err := filteredOrders(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", "Failed to query orders", err.Error())
	}

	out := make([]orderExportRow, 0, len(rows))
	for _, o := range rows {
		city := ""
		if o.Address != nil {
			city = o.Address.City
		}
		out = append(out, orderExportRow{
			ID:        o.ID,
			UserID:    o.UserID,
			Status:    o.Status,
			Subtotal:  o.Subtotal.StringFixed(2),
			Shipping:  o.ShippingCost.StringFixed(2),
			Total:     o.Total.StringFixed(2),
			City:      city,
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&out, c.Response())
}
