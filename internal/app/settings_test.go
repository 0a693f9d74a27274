package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/pkg/common"
)

func openSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.SysConfig{}))
	return db
}

func seedSetting(t *testing.T, db *gorm.DB, category, name, value string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.SysConfig{
		ID:    common.UUIDint64(),
		Type:  category,
		Name:  name,
		Value: value,
	}).Error)
}

func TestSettingsTypedReads(t *testing.T) {
	db := openSettingsDB(t)
	seedSetting(t, db, "site", "name", "GreenVida")
	seedSetting(t, db, "cart", "session_ttl_days", "90")
	seedSetting(t, db, "notify", "order_emails", "true")

	m := NewSettingsManager(db)
	assert.Equal(t, "GreenVida", m.GetString("site", "name"))
	assert.EqualValues(t, 90, m.GetInt64("cart", "session_ttl_days"))
	assert.True(t, m.GetBool("notify", "order_emails"))

	// missing keys fall back to zero values
	assert.Equal(t, "", m.GetString("site", "nope"))
	assert.EqualValues(t, 0, m.GetInt64("site", "nope"))
	assert.False(t, m.GetBool("site", "nope"))
}

func TestSettingsSetInvalidatesCache(t *testing.T) {
	db := openSettingsDB(t)
	seedSetting(t, db, "notify", "order_emails", "true")

	m := NewSettingsManager(db)
	require.True(t, m.GetBool("notify", "order_emails"))

	require.NoError(t, m.Set("notify", "order_emails", "false"))
	assert.False(t, m.GetBool("notify", "order_emails"))
}
