package app

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "greenstore"

	hashedPassword, err := common.HashPassword(defaultPassword)
	if err != nil {
		zap.L().Error("failed to hash default super admin password", zap.Error(err))
		return
	}

	var operator domain.SysOpr
	err = a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     domain.OprLevelSuper,
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, domain.OprLevelSuper)
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = domain.OprLevelSuper
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

var settingSchemas = []settingSchema{
	{Key: "site.name", Default: "GreenVida", Description: "Public site name used in notification emails"},
	{Key: "site.base_url", Default: "https://greenvida.example.org", Description: "Public site base URL for links in emails"},
	{Key: "notify.product_emails", Default: "true", Description: "Send announcement emails when a product is created"},
	{Key: "notify.order_emails", Default: "true", Description: "Send confirmation emails when an order is placed"},
	{Key: "cart.session_ttl_days", Default: "90", Description: "Days before untouched anonymous carts are cleared"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range settingSchemas {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     0,
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkShippingRates seeds the coverage table with the launch cities
func (a *Application) checkShippingRates() {
	defaultRates := []domain.ShippingRate{
		{City: "Bogotá", Region: "Cundinamarca", BasePrice: decimal.NewFromInt(10000), ExtraUnitPrice: decimal.NewFromInt(500)},
		{City: "Medellín", Region: "Antioquia", BasePrice: decimal.NewFromInt(12000), ExtraUnitPrice: decimal.NewFromInt(500)},
		{City: "Cali", Region: "Valle del Cauca", BasePrice: decimal.NewFromInt(12000), ExtraUnitPrice: decimal.NewFromInt(500)},
	}

	for _, rate := range defaultRates {
		var count int64
		a.gormDB.Model(&domain.ShippingRate{}).Where("city = ?", rate.City).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&rate).Error; err != nil {
				zap.L().Error("failed to create default shipping rate", zap.String("city", rate.City), zap.Error(err))
			} else {
				zap.L().Info("initialized default shipping rate", zap.String("city", rate.City))
			}
		}
	}
}

// checkCategories seeds one root category per content section
func (a *Application) checkCategories() {
	defaults := []domain.Category{
		{Name: "General", Slug: "general", Type: domain.CategoryProduct},
		{Name: "News", Slug: "news-general", Type: domain.CategoryNews},
		{Name: "Blog", Slug: "blog-general", Type: domain.CategoryBlog},
		{Name: "Research", Slug: "research-general", Type: domain.CategoryResearch},
	}

	for _, cat := range defaults {
		var count int64
		a.gormDB.Model(&domain.Category{}).Where("slug = ?", cat.Slug).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&cat).Error; err != nil {
				zap.L().Error("failed to create default category", zap.String("slug", cat.Slug), zap.Error(err))
			} else {
				zap.L().Info("initialized default category", zap.String("slug", cat.Slug))
			}
		}
	}
}
