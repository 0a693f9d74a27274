package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/webserver"
	"github.com/greenvida/greenstore/pkg/common"
)

func registerOperatorRoutes() {
	webserver.AdminGET("/operators", listOperators)
	webserver.AdminPOST("/operators", createOperator)
	webserver.AdminPUT("/operators/:id", updateOperator)
	webserver.AdminDELETE("/operators/:id", deleteOperator)
}

var oprLevels = map[string]bool{
	domain.OprLevelSuper:      true,
	domain.OprLevelAdmin:      true,
	domain.OprLevelDispatcher: true,
}

type operatorPayload struct {
	Realname string `json:"realname"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Level    string `json:"level"`
	Status   string `json:"status"`
	Remark   string `json:"remark"`
}

func listOperators(c echo.Context) error {
	if err := webserver.RequireLevel(c, domain.OprLevelSuper); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.SysOpr{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operators", err.Error())
	}

	var oprs []domain.SysOpr
	if err := base.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&oprs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operators", err.Error())
	}
	return paged(c, oprs, total, page, pageSize)
}

func createOperator(c echo.Context) error {
	if err := webserver.RequireLevel(c, domain.OprLevelSuper); err != nil {
		return err
	}
	var payload operatorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse operator", err.Error())
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username is required", nil)
	}
	if len(payload.Password) < 8 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Password must be at least 8 characters", nil)
	}
	if !oprLevels[payload.Level] {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Level must be super, admin or dispatcher", nil)
	}

	var dup int64
	GetDB(c).Model(&domain.SysOpr{}).Where("username = ?", payload.Username).Count(&dup)
	if dup > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_OPERATOR", "Username already exists", nil)
	}

	hashed, err := common.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create operator", nil)
	}

	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  payload.Realname,
		Mobile:    payload.Mobile,
		Email:     payload.Email,
		Username:  payload.Username,
		Password:  hashed,
		Level:     payload.Level,
		Status:    common.ENABLED,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create operator", err.Error())
	}
	logAction(c, "operator.create", fmt.Sprintf("operator %s (%s)", opr.Username, opr.Level))
	return created(c, opr)
}

func updateOperator(c echo.Context) error {
	if err := webserver.RequireLevel(c, domain.OprLevelSuper); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid operator ID", nil)
	}
	var opr domain.SysOpr
	if err := GetDB(c).Where("id = ?", id).First(&opr).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Operator not found", nil)
	}

	var payload operatorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse operator", err.Error())
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if payload.Realname != "" {
		updates["realname"] = payload.Realname
	}
	if payload.Mobile != "" {
		updates["mobile"] = payload.Mobile
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Level != "" {
		if !oprLevels[payload.Level] {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Level must be super, admin or dispatcher", nil)
		}
		updates["level"] = payload.Level
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Password != "" {
		if len(payload.Password) < 8 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Password must be at least 8 characters", nil)
		}
		hashed, err := common.HashPassword(payload.Password)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update operator", nil)
		}
		updates["password"] = hashed
	}

	if err := GetDB(c).Model(&opr).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update operator", err.Error())
	}
	logAction(c, "operator.update", fmt.Sprintf("operator %s", opr.Username))
	GetDB(c).Where("id = ?", id).First(&opr)
	return ok(c, opr)
}

func deleteOperator(c echo.Context) error {
	if err := webserver.RequireLevel(c, domain.OprLevelSuper); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid operator ID", nil)
	}
	if id == webserver.CurrentUserID(c) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Cannot delete your own account", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.SysOpr{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete operator", err.Error())
	}
	logAction(c, "operator.delete", fmt.Sprintf("operator %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
