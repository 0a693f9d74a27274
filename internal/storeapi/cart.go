package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/store"
	"github.com/greenvida/greenstore/internal/webserver"
)

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/add", addToCart)
	webserver.ApiDELETE("/cart/remove/:product_id", removeFromCart)
}

func cartService(c echo.Context) *store.CartService {
	return store.NewCartService(GetDB(c))
}

func getCart(c echo.Context) error {
	view, err := cartService(c).View(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, view)
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func addToCart(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := cartService(c).AddItem(c.Request().Context(), webserver.CurrentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, view)
}

func removeFromCart(c echo.Context) error {
	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}
	view, err := cartService(c).RemoveItem(c.Request().Context(), webserver.CurrentUserID(c), productID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, view)
}
