package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/store"
	"github.com/greenvida/greenstore/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiPOST("/orders", placeOrder)
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
}

func checkoutService(c echo.Context) *store.CheckoutService {
	return store.NewCheckoutService(GetDB(c), webserver.GetApp(c).Bus())
}

type placeOrderRequest struct {
	AddressID     int64  `json:"address_id"`
	PaymentMethod string `json:"payment_method"`
}

func placeOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request")
	}
	order, err := checkoutService(c).PlaceOrder(c.Request().Context(), store.CheckoutInput{
		UserID:        webserver.CurrentUserID(c),
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func listOrders(c echo.Context) error {
	orders, err := checkoutService(c).ListByUser(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, orders)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
	}
	order, err := checkoutService(c).Get(c.Request().Context(), webserver.CurrentUserID(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, order)
}
