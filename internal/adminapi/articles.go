package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/notify"
	"github.com/greenvida/greenstore/internal/webserver"
	"github.com/greenvida/greenstore/pkg/common"
)

func registerArticleRoutes() {
	webserver.AdminGET("/articles", listArticlesAdmin)
	webserver.AdminGET("/articles/:id", getArticleAdmin)
	webserver.AdminPOST("/articles", createArticle)
	webserver.AdminPUT("/articles/:id", updateArticle)
	webserver.AdminDELETE("/articles/:id", deleteArticle)

	webserver.AdminGET("/protocols", listProtocolsAdmin)
	webserver.AdminPOST("/protocols", createProtocol)
	webserver.AdminPUT("/protocols/:id", updateProtocol)
	webserver.AdminDELETE("/protocols/:id", deleteProtocol)
}

func validArticleKind(kind string) bool {
	switch kind {
	case domain.ArticleNews, domain.ArticleBlog, domain.ArticleResearch:
		return true
	}
	return false
}

type articlePayload struct {
	Kind       string `json:"kind"`
	CategoryID *int64 `json:"category_id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Cover      string `json:"cover"`
	Content    string `json:"content"`
	Featured   bool   `json:"featured"`
	Published  *bool  `json:"published"`
}

func listArticlesAdmin(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	db := GetDB(c)
	page, pageSize := parsePagination(c)
	query := db.Model(&domain.Article{}).Preload("Category")
	if kind := strings.ToUpper(c.QueryParam("kind")); kind != "" {
		if !validArticleKind(kind) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown article kind", kind)
		}
		query = query.Where("kind = ?", kind)
	}
	if pub := c.QueryParam("published"); pub != "" {
		query = query.Where("published = ?", pub == "true" || pub == "1")
	}
	if q := c.QueryParam("q"); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			query = query.Where("title ILIKE ?", "%"+q+"%")
		} else {
			query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+q+"%")
		}
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count articles", err.Error())
	}
	var rows []domain.Article
	if err := query.Order("published_at DESC, id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query articles", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getArticleAdmin(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid article ID", nil)
	}
	var a domain.Article
	if err := GetDB(c).Preload("Category").Where("id = ?", id).First(&a).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Article not found", nil)
	}
	return ok(c, a)
}

func createArticle(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload articlePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse article", err.Error())
	}
	payload.Kind = strings.ToUpper(payload.Kind)
	if !validArticleKind(payload.Kind) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown article kind", payload.Kind)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Title is required", nil)
	}
	db := GetDB(c)
	if payload.CategoryID != nil {
		var cat domain.Category
		if err := db.Where("id = ?", *payload.CategoryID).First(&cat).Error; err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category does not exist", nil)
		}
	}
	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.Title)
	}
	var dup int64
	db.Model(&domain.Article{}).Where("slug = ?", slug).Count(&dup)
	if dup > 0 {
		return fail(c, http.StatusConflict, "SLUG_TAKEN", "An article with this slug already exists", slug)
	}
	published := false
	if payload.Published != nil {
		published = *payload.Published
	}
	now := time.Now()
	a := domain.Article{
		Kind:        payload.Kind,
		CategoryID:  payload.CategoryID,
		Title:       strings.TrimSpace(payload.Title),
		Slug:        slug,
		Cover:       payload.Cover,
		Content:     payload.Content,
		Featured:    payload.Featured,
		Published:   published,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&a).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create article", err.Error())
	}
	if a.Published {
		webserver.GetApp(c).Bus().Publish(notify.TopicContentPublished, &a)
	}
	logAction(c, "article.create", a.Slug)
	return created(c, a)
}

func updateArticle(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid article ID", nil)
	}
	db := GetDB(c)
	var a domain.Article
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Article not found", nil)
	}
	var payload articlePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse article", err.Error())
	}
	if payload.Kind != "" {
		kind := strings.ToUpper(payload.Kind)
		if !validArticleKind(kind) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown article kind", kind)
		}
		a.Kind = kind
	}
	if t := strings.TrimSpace(payload.Title); t != "" {
		a.Title = t
	}
	if slug := strings.TrimSpace(payload.Slug); slug != "" && slug != a.Slug {
		var dup int64
		db.Model(&domain.Article{}).Where("slug = ? AND id <> ?", slug, a.ID).Count(&dup)
		if dup > 0 {
			return fail(c, http.StatusConflict, "SLUG_TAKEN", "An article with this slug already exists", slug)
		}
		a.Slug = slug
	}
	if payload.CategoryID != nil {
		var cat domain.Category
		if err := db.Where("id = ?", *payload.CategoryID).First(&cat).Error; err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category does not exist", nil)
		}
		a.CategoryID = payload.CategoryID
	}
	a.Cover = payload.Cover
	a.Content = payload.Content
	a.Featured = payload.Featured
	justPublished := false
	if payload.Published != nil {
		if *payload.Published && !a.Published {
			a.PublishedAt = time.Now()
			justPublished = true
		}
		a.Published = *payload.Published
	}
	a.UpdatedAt = time.Now()
	if err := db.Save(&a).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update article", err.Error())
	}
	if justPublished {
		webserver.GetApp(c).Bus().Publish(notify.TopicContentPublished, &a)
	}
	logAction(c, "article.update", a.Slug)
	return ok(c, a)
}

func deleteArticle(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid article ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Article{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete article", err.Error())
	}
	logAction(c, "article.delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}

type protocolPayload struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary"`
	Document  string `json:"document"`
	Published *bool  `json:"published"`
}

func listProtocolsAdmin(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var rows []domain.Protocol
	if err := GetDB(c).Order("id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query protocols", err.Error())
	}
	return ok(c, rows)
}

func createProtocol(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload protocolPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse protocol", err.Error())
	}
	if strings.TrimSpace(payload.Title) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Title is required", nil)
	}
	db := GetDB(c)
	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.Title)
	}
	var dup int64
	db.Model(&domain.Protocol{}).Where("slug = ?", slug).Count(&dup)
	if dup > 0 {
		return fail(c, http.StatusConflict, "SLUG_TAKEN", "A protocol with this slug already exists", slug)
	}
	published := false
	if payload.Published != nil {
		published = *payload.Published
	}
	now := time.Now()
	p := domain.Protocol{
		Title:     strings.TrimSpace(payload.Title),
		Slug:      slug,
		Summary:   payload.Summary,
		Document:  payload.Document,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create protocol", err.Error())
	}
	return created(c, p)
}

func updateProtocol(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid protocol ID", nil)
	}
	db := GetDB(c)
	var p domain.Protocol
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Protocol not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query protocol", err.Error())
	}
	var payload protocolPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse protocol", err.Error())
	}
	if t := strings.TrimSpace(payload.Title); t != "" {
		p.Title = t
	}
	if slug := strings.TrimSpace(payload.Slug); slug != "" && slug != p.Slug {
		var dup int64
		db.Model(&domain.Protocol{}).Where("slug = ? AND id <> ?", slug, p.ID).Count(&dup)
		if dup > 0 {
			return fail(c, http.StatusConflict, "SLUG_TAKEN", "A protocol with this slug already exists", slug)
		}
		p.Slug = slug
	}
	p.Summary = payload.Summary
	p.Document = payload.Document
	if payload.Published != nil {
		p.Published = *payload.Published
	}
	p.UpdatedAt = time.Now()
	if err := db.Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update protocol", err.Error())
	}
	return ok(c, p)
}

func deleteProtocol(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid protocol ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Protocol{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete protocol", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
