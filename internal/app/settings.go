package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/domain"
)

// SettingsManager reads runtime tunables from the sys_config table
// with a short-lived in-memory cache.
type SettingsManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]cachedValue
	ttl   time.Duration
}

type cachedValue struct {
	value    string
	loadedAt time.Time
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	return &SettingsManager{
		db:    db,
		cache: make(map[string]cachedValue),
		ttl:   30 * time.Second,
	}
}

func (m *SettingsManager) get(category, name string) string {
	key := category + "." + name
	m.mu.RLock()
	cv, hit := m.cache[key]
	m.mu.RUnlock()
	if hit && time.Since(cv.loadedAt) < m.ttl {
		return cv.value
	}

	var cfg domain.SysConfig
	err := m.db.Where("type = ? AND name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}

	m.mu.Lock()
	m.cache[key] = cachedValue{value: cfg.Value, loadedAt: time.Now()}
	m.mu.Unlock()
	return cfg.Value
}

func (m *SettingsManager) GetString(category, name string) string {
	return m.get(category, name)
}

func (m *SettingsManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

func (m *SettingsManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}

// Set updates a setting value and invalidates the cache entry.
func (m *SettingsManager) Set(category, name, value string) error {
	err := m.db.Model(&domain.SysConfig{}).
		Where("type = ? AND name = ?", category, name).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	if err != nil {
		zap.L().Error("failed to update setting",
			zap.String("category", category),
			zap.String("name", name),
			zap.Error(err))
		return err
	}
	m.mu.Lock()
	delete(m.cache, category+"."+name)
	m.mu.Unlock()
	return nil
}
