package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/notify"
	"github.com/greenvida/greenstore/internal/webserver"
	"github.com/greenvida/greenstore/pkg/common"
)

type productPayload struct {
	CategoryID  *int64          `json:"category_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	Featured    bool            `json:"featured"`
	Image       string          `json:"image"`
	RelatedIDs  []int64         `json:"related_ids"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.AdminGET("/products", listProducts)
	webserver.AdminGET("/products/:id", getProduct)
	webserver.AdminPOST("/products", createProduct)
	webserver.AdminPUT("/products/:id", updateProduct)
	webserver.AdminDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	// Filters: q searches name and description
	q := strings.TrimSpace(c.QueryParam("q"))

	// Sorting: field and order
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR description ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", lq, lq)
		}
	}
	if cat := strings.TrimSpace(c.QueryParam("category_id")); cat != "" {
		if id, err := strconv.ParseInt(cat, 10, 64); err == nil {
			db = db.Where("category_id = ?", id)
		}
	}
	if f := strings.TrimSpace(c.QueryParam("featured")); f != "" {
		db = db.Where("featured = ?", f == "true" || f == "1")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Category").Order(sortCol + " " + order).Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Preload("Category").Preload("Related").Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	stock := 0
	if payload.Stock != nil {
		if *payload.Stock < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Stock must be >= 0", nil)
		}
		stock = *payload.Stock
	}
	if payload.Price.IsNegative() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.Name)
	}
	var dup int64
	GetDB(c).Model(&domain.Product{}).Where("slug = ?", slug).Count(&dup)
	if dup > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_SLUG", "A product with this slug already exists", nil)
	}

	now := time.Now()
	p := domain.Product{
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Slug:        slug,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       stock,
		Featured:    payload.Featured,
		Image:       strings.TrimSpace(payload.Image),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	if err := replaceRelated(c, &p, payload.RelatedIDs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to set related products", err.Error())
	}

	logAction(c, "product.create", fmt.Sprintf("product %d (%s)", p.ID, p.Name))
	webserver.GetApp(c).Bus().Publish(notify.TopicProductCreated, &p)
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.Stock != nil && *payload.Stock < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Stock must be >= 0", nil)
	}
	if payload.Price.IsNegative() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}

	p.CategoryID = payload.CategoryID
	p.Name = payload.Name
	p.Description = payload.Description
	p.Price = payload.Price
	if payload.Stock != nil {
		p.Stock = *payload.Stock
	}
	p.Featured = payload.Featured
	p.Image = strings.TrimSpace(payload.Image)
	if slug := strings.TrimSpace(payload.Slug); slug != "" && slug != p.Slug {
		var dup int64
		GetDB(c).Model(&domain.Product{}).Where("slug = ? AND id <> ?", slug, p.ID).Count(&dup)
		if dup > 0 {
			return fail(c, http.StatusConflict, "DUPLICATE_SLUG", "A product with this slug already exists", nil)
		}
		p.Slug = slug
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	if payload.RelatedIDs != nil {
		if err := replaceRelated(c, &p, payload.RelatedIDs); err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to set related products", err.Error())
		}
	}

	logAction(c, "product.update", fmt.Sprintf("product %d (%s)", p.ID, p.Name))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	// products referenced by order lines are delete-protected
	var refs int64
	GetDB(c).Model(&domain.OrderLine{}).Where("product_id = ?", id).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_REFERENCED", "Product is referenced by existing orders", nil)
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	logAction(c, "product.delete", fmt.Sprintf("product %d", id))
	return ok(c, map[string]interface{}{"id": id})
}

func replaceRelated(c echo.Context, p *domain.Product, ids []int64) error {
	if ids == nil {
		return nil
	}
	var related []*domain.Product
	if len(ids) > 0 {
		if err := GetDB(c).Where("id IN ?", ids).Find(&related).Error; err != nil {
			return err
		}
	}
	return GetDB(c).Model(p).Association("Related").Replace(related)
}
