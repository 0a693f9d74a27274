package storeapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
)

func registerFavoriteRoutes() {
	webserver.ApiGET("/favorites", listFavorites)
	webserver.ApiPOST("/favorites", addFavorite)
	webserver.ApiDELETE("/favorites/:product_id", removeFavorite)
}

func listFavorites(c echo.Context) error {
	var rows []domain.Favorite
	err := GetDB(c).
		Preload("Product").
		Where("user_id = ?", webserver.CurrentUserID(c)).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}

type favoriteRequest struct {
	ProductID int64 `json:"product_id"`
}

// addFavorite is idempotent: adding a product twice keeps the single
// existing row.
func addFavorite(c echo.Context) error {
	var req favoriteRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request")
	}
	db := GetDB(c)
	var product domain.Product
	if err := db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		}
		return serviceError(c, err)
	}
	userID := webserver.CurrentUserID(c)
	fav := domain.Favorite{UserID: userID, ProductID: product.ID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(&fav).Error
	if err != nil {
		return serviceError(c, err)
	}
	// Re-read so the idempotent path returns the original row.
	var row domain.Favorite
	err = db.Preload("Product").
		Where("user_id = ? AND product_id = ?", userID, product.ID).
		First(&row).Error
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, row)
}

func removeFavorite(c echo.Context) error {
	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}
	res := GetDB(c).
		Where("user_id = ? AND product_id = ?", webserver.CurrentUserID(c), productID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return serviceError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Favorite not found")
	}
	return ok(c, map[string]interface{}{"product_id": productID})
}
