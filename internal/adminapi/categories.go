package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
	"github.com/greenvida/greenstore/pkg/common"
)

func registerCategoryRoutes() {
	webserver.AdminGET("/categories", listCategories)
	webserver.AdminPOST("/categories", createCategory)
	webserver.AdminPUT("/categories/:id", updateCategory)
	webserver.AdminDELETE("/categories/:id", deleteCategory)
}

var categoryTypes = map[string]bool{
	domain.CategoryProduct:  true,
	domain.CategoryNews:     true,
	domain.CategoryBlog:     true,
	domain.CategoryResearch: true,
}

type categoryPayload struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Type string `json:"type"`
}

func listCategories(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Category{})
	if t := strings.ToUpper(strings.TrimSpace(c.QueryParam("type"))); t != "" {
		db = db.Where("type = ?", t)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}

	var rows []domain.Category
	if err := db.Order("type, name").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func createCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Type = strings.ToUpper(strings.TrimSpace(payload.Type))
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if !categoryTypes[payload.Type] {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Type must be PRODUCT, NEWS, BLOG or RESEARCH", nil)
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.Name)
	}
	var dup int64
	GetDB(c).Model(&domain.Category{}).Where("slug = ?", slug).Count(&dup)
	if dup > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_SLUG", "A category with this slug already exists", nil)
	}

	now := time.Now()
	cat := domain.Category{Name: payload.Name, Slug: slug, Type: payload.Type, CreatedAt: now, UpdatedAt: now}
	if err := GetDB(c).Create(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return created(c, cat)
}

func updateCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if name := strings.TrimSpace(payload.Name); name != "" {
		cat.Name = name
	}
	if slug := strings.TrimSpace(payload.Slug); slug != "" {
		cat.Slug = slug
	}
	if t := strings.ToUpper(strings.TrimSpace(payload.Type)); t != "" {
		if !categoryTypes[t] {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Type must be PRODUCT, NEWS, BLOG or RESEARCH", nil)
		}
		cat.Type = t
	}
	cat.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var refs int64
	GetDB(c).Model(&domain.Product{}).Where("category_id = ?", id).Count(&refs)
	if refs == 0 {
		GetDB(c).Model(&domain.Article{}).Where("category_id = ?", id).Count(&refs)
	}
	if refs > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_REFERENCED", "Category is still in use", nil)
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Category{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
