package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/store"
	"github.com/greenvida/greenstore/internal/webserver"
)

func registerAddressRoutes() {
	webserver.ApiGET("/addresses", listAddresses)
	webserver.ApiGET("/addresses/:id", getAddress)
	webserver.ApiPOST("/addresses", createAddress)
	webserver.ApiPUT("/addresses/:id", updateAddress)
	webserver.ApiDELETE("/addresses/:id", deleteAddress)
}

func addressService(c echo.Context) *store.AddressService {
	return store.NewAddressService(GetDB(c))
}

type addressPayload struct {
	Recipient string `json:"recipient"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Phone     string `json:"phone"`
	Reference string `json:"reference"`
	IsPrimary bool   `json:"is_primary"`
}

func listAddresses(c echo.Context) error {
	addrs, err := addressService(c).List(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, addrs)
}

func getAddress(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID")
	}
	addr, err := addressService(c).Get(c.Request().Context(), webserver.CurrentUserID(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, addr)
}

func createAddress(c echo.Context) error {
	var payload addressPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse address")
	}
	addr := domain.Address{
		UserID:    webserver.CurrentUserID(c),
		Recipient: payload.Recipient,
		Street:    payload.Street,
		City:      payload.City,
		Region:    payload.Region,
		Phone:     payload.Phone,
		Reference: payload.Reference,
		IsPrimary: payload.IsPrimary,
	}
	if err := addressService(c).Save(c.Request().Context(), &addr); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, addr)
}

func updateAddress(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID")
	}
	svc := addressService(c)
	userID := webserver.CurrentUserID(c)
	addr, err := svc.Get(c.Request().Context(), userID, id)
	if err != nil {
		return serviceError(c, err)
	}
	var payload addressPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse address")
	}
	addr.Recipient = payload.Recipient
	addr.Street = payload.Street
	addr.City = payload.City
	addr.Region = payload.Region
	addr.Phone = payload.Phone
	addr.Reference = payload.Reference
	addr.IsPrimary = payload.IsPrimary
	if err := svc.Save(c.Request().Context(), addr); err != nil {
		return serviceError(c, err)
	}
	return ok(c, addr)
}

func deleteAddress(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID")
	}
	if err := addressService(c).Delete(c.Request().Context(), webserver.CurrentUserID(c), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
