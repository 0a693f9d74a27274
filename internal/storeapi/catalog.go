package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/recommendations", listRecommendations)
	webserver.PubGET("/products/:slug", getProductBySlug)
	webserver.PubGET("/categories", listCategories)
}

type productPage struct {
	Items    []domain.Product `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func listProducts(c echo.Context) error {
	db := GetDB(c)
	page, pageSize := parsePagination(c)

	query := db.Model(&domain.Product{}).Preload("Category")
	if cat := c.QueryParam("category"); cat != "" {
		query = query.Joins("JOIN store_category ON store_category.id = store_product.category_id").
			Where("store_category.slug = ?", cat)
	}
	if c.QueryParam("featured") == "true" {
		query = query.Where("featured = ?", true)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + q + "%"
		if strings.EqualFold(db.Name(), "postgres") {
			query = query.Where("store_product.name ILIKE ? OR store_product.description ILIKE ?", like, like)
		} else {
			query = query.Where("LOWER(store_product.name) LIKE LOWER(?) OR LOWER(store_product.description) LIKE LOWER(?)", like, like)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return serviceError(c, err)
	}
	var rows []domain.Product
	err := query.Order("store_product.name").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, productPage{Items: rows, Total: total, Page: page, PageSize: pageSize})
}

// listRecommendations returns up to six featured products for the
// home page.
func listRecommendations(c echo.Context) error {
	var rows []domain.Product
	err := GetDB(c).
		Where("featured = ?", true).
		Order("id DESC").
		Limit(6).
		Find(&rows).Error
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}

func getProductBySlug(c echo.Context) error {
	var p domain.Product
	err := GetDB(c).
		Preload("Category").
		Preload("Related").
		Where("slug = ?", c.Param("slug")).
		First(&p).Error
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
	}
	return ok(c, p)
}

func listCategories(c echo.Context) error {
	db := GetDB(c).Model(&domain.Category{})
	if t := strings.ToUpper(c.QueryParam("type")); t != "" {
		db = db.Where("type = ?", t)
	}
	var rows []domain.Category
	if err := db.Order("type, name").Find(&rows).Error; err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}
