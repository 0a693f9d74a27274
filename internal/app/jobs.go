package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/greenvida/greenstore/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 6h", func() {
		a.clearStaleSessionCarts()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// clearStaleSessionCarts drops the lines of anonymous-session carts
// that have not been touched for the configured TTL. User carts are
// never cleared by housekeeping.
func (a *Application) clearStaleSessionCarts() {
	ttlDays := a.GetSettingsInt64Value("cart", "session_ttl_days")
	if ttlDays <= 0 {
		ttlDays = 90
	}
	cutoff := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

	var cartIDs []int64
	err := a.gormDB.Model(&domain.Cart{}).
		Where("user_id IS NULL AND session_id <> '' AND updated_at < ?", cutoff).
		Pluck("id", &cartIDs).Error
	if err != nil || len(cartIDs) == 0 {
		return
	}

	if err := a.gormDB.Where("cart_id IN ?", cartIDs).Delete(&domain.CartLine{}).Error; err != nil {
		zap.L().Error("failed to clear stale session carts", zap.Error(err))
		return
	}
	zap.L().Info("cleared stale session carts", zap.Int("carts", len(cartIDs)))
}
