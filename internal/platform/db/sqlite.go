package db

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenplate/mealsub/internal/models"
	cfgpkg "github.com/greenplate/mealsub/pkg/config"
	gormzap "github.com/greenplate/mealsub/pkg/gormlog"
)

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.Path == "" {
		l.Error("database path is empty")
		return nil, gorm.ErrInvalidDB
	}
	// busy_timeout keeps concurrent demand reads from failing while a
	// transition transaction holds the write lock; foreign_keys is off by
	// default in sqlite.
	dsn := cfg.Database.Path + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormzap.New(l)})
	if err != nil {
		l.Errorf("failed to open database: %v", err)
		return nil, err
	}
	l.Infow("opened sqlite database", "path", cfg.Database.Path)
	return db, nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Plan{},
		&models.MenuCycle{},
		&models.MenuCycleDay{},
		&models.MenuDayAssignment{},
		&models.Meal{},
		&models.Ingredient{},
		&models.MealIngredient{},
		&models.Subscription{},
		&models.SubscriptionStateHistory{},
	); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing sqlite database")
			return sqlDB.Close()
		},
	})
}
