package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
)

// Public marketing reads: everything here is unauthenticated and
// published-only.
func registerContentRoutes() {
	webserver.PubGET("/services", listServices)
	webserver.PubGET("/certifications", listCertifications)
	webserver.PubGET("/testimonials", listTestimonials)
	webserver.PubGET("/articles", listArticles)
	webserver.PubGET("/articles/:slug", getArticleBySlug)
	webserver.PubGET("/protocols", listProtocols)
	webserver.PubGET("/protocols/:slug", getProtocolBySlug)
}

func listServices(c echo.Context) error {
	var rows []domain.SiteService
	if err := GetDB(c).Order("sort, id").Find(&rows).Error; err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}

func listCertifications(c echo.Context) error {
	var rows []domain.Certification
	if err := GetDB(c).Order("id").Find(&rows).Error; err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}

func listTestimonials(c echo.Context) error {
	var rows []domain.Testimonial
	err := GetDB(c).Where("active = ?", true).Order("id DESC").Find(&rows).Error
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}

func listArticles(c echo.Context) error {
	db := GetDB(c).Model(&domain.Article{}).
		Preload("Category").
		Where("published = ?", true)
	if kind := strings.ToUpper(c.QueryParam("kind")); kind != "" {
		db = db.Where("kind = ?", kind)
	}
	if c.QueryParam("featured") == "true" {
		db = db.Where("featured = ?", true)
	}
	page, pageSize := parsePagination(c)
	var rows []domain.Article
	err := db.Order("published_at DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}

func getArticleBySlug(c echo.Context) error {
	var a domain.Article
	err := GetDB(c).
		Preload("Category").
		Where("slug = ? AND published = ?", c.Param("slug"), true).
		First(&a).Error
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Article not found")
	}
	return ok(c, a)
}

func listProtocols(c echo.Context) error {
	var rows []domain.Protocol
	err := GetDB(c).Where("published = ?", true).Order("title").Find(&rows).Error
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, rows)
}

func getProtocolBySlug(c echo.Context) error {
	var p domain.Protocol
	err := GetDB(c).
		Where("slug = ? AND published = ?", c.Param("slug"), true).
		First(&p).Error
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Protocol not found")
	}
	return ok(c, p)
}
