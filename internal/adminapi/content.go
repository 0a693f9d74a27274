package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
)

// registerContentRoutes covers the small marketing blocks: services,
// certifications and testimonials.
func registerContentRoutes() {
	webserver.AdminGET("/services", listSiteServices)
	webserver.AdminPOST("/services", createSiteService)
	webserver.AdminPUT("/services/:id", updateSiteService)
	webserver.AdminDELETE("/services/:id", deleteSiteService)

	webserver.AdminGET("/certifications", listCertificationsAdmin)
	webserver.AdminPOST("/certifications", createCertification)
	webserver.AdminPUT("/certifications/:id", updateCertification)
	webserver.AdminDELETE("/certifications/:id", deleteCertification)

	webserver.AdminGET("/testimonials", listTestimonialsAdmin)
	webserver.AdminPOST("/testimonials", createTestimonial)
	webserver.AdminPUT("/testimonials/:id", updateTestimonial)
	webserver.AdminDELETE("/testimonials/:id", deleteTestimonial)
}

type siteServicePayload struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
	Sort    int    `json:"sort"`
}

func listSiteServices(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var rows []domain.SiteService
	if err := GetDB(c).Order("sort, id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query services", err.Error())
	}
	return ok(c, rows)
}

func createSiteService(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload siteServicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service", err.Error())
	}
	if strings.TrimSpace(payload.Title) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Title is required", nil)
	}
	now := time.Now()
	svc := domain.SiteService{
		Title:     strings.TrimSpace(payload.Title),
		Summary:   payload.Summary,
		Image:     payload.Image,
		Sort:      payload.Sort,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&svc).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create service", err.Error())
	}
	return created(c, svc)
}

func updateSiteService(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}
	var svc domain.SiteService
	if err := GetDB(c).Where("id = ?", id).First(&svc).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
	}
	var payload siteServicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service", err.Error())
	}
	if t := strings.TrimSpace(payload.Title); t != "" {
		svc.Title = t
	}
	svc.Summary = payload.Summary
	svc.Image = payload.Image
	svc.Sort = payload.Sort
	svc.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&svc).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update service", err.Error())
	}
	return ok(c, svc)
}

func deleteSiteService(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.SiteService{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete service", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type certificationPayload struct {
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	ExternalURL string `json:"external_url"`
}

func listCertificationsAdmin(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var rows []domain.Certification
	if err := GetDB(c).Order("id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query certifications", err.Error())
	}
	return ok(c, rows)
}

func createCertification(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload certificationPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse certification", err.Error())
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	now := time.Now()
	cert := domain.Certification{
		Name:        strings.TrimSpace(payload.Name),
		Logo:        payload.Logo,
		ExternalURL: payload.ExternalURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&cert).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create certification", err.Error())
	}
	return created(c, cert)
}

func updateCertification(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid certification ID", nil)
	}
	var cert domain.Certification
	if err := GetDB(c).Where("id = ?", id).First(&cert).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Certification not found", nil)
	}
	var payload certificationPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse certification", err.Error())
	}
	if n := strings.TrimSpace(payload.Name); n != "" {
		cert.Name = n
	}
	cert.Logo = payload.Logo
	cert.ExternalURL = payload.ExternalURL
	cert.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&cert).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update certification", err.Error())
	}
	return ok(c, cert)
}

func deleteCertification(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid certification ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Certification{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete certification", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type testimonialPayload struct {
	ClientName string `json:"client_name"`
	ClientRole string `json:"client_role"`
	Text       string `json:"text"`
	Photo      string `json:"photo"`
	Active     *bool  `json:"active"`
}

func listTestimonialsAdmin(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var rows []domain.Testimonial
	if err := GetDB(c).Order("id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query testimonials", err.Error())
	}
	return ok(c, rows)
}

func createTestimonial(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload testimonialPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse testimonial", err.Error())
	}
	if strings.TrimSpace(payload.ClientName) == "" || strings.TrimSpace(payload.Text) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Client name and text are required", nil)
	}
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}
	now := time.Now()
	t := domain.Testimonial{
		ClientName: strings.TrimSpace(payload.ClientName),
		ClientRole: payload.ClientRole,
		Text:       payload.Text,
		Photo:      payload.Photo,
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := GetDB(c).Create(&t).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create testimonial", err.Error())
	}
	return created(c, t)
}

func updateTestimonial(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid testimonial ID", nil)
	}
	var t domain.Testimonial
	if err := GetDB(c).Where("id = ?", id).First(&t).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Testimonial not found", nil)
	}
	var payload testimonialPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse testimonial", err.Error())
	}
	if n := strings.TrimSpace(payload.ClientName); n != "" {
		t.ClientName = n
	}
	if payload.Text != "" {
		t.Text = payload.Text
	}
	t.ClientRole = payload.ClientRole
	t.Photo = payload.Photo
	if payload.Active != nil {
		t.Active = *payload.Active
	}
	t.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&t).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update testimonial", err.Error())
	}
	return ok(c, t)
}

func deleteTestimonial(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid testimonial ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Testimonial{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete testimonial", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
