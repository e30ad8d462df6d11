package database

import (
	"fmt"
	"time"

	"icd201_backend/internal/config"
	"icd201_backend/internal/fixture"
	"icd201_backend/internal/model"
	applog "icd201_backend/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 需要迁移的全部表
var Models = []interface{}{
	&model.Unit{},
	&model.Lesson{},
	&model.Resource{},
	&model.CalendarEvent{},
	&model.CourseSettings{},
	&model.ExportRecord{},
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "icd201.db"
		}
		return sqlite.Open(path), nil
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// InitDB 建立数据库连接，失败时按指数退避重试
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.LogSQL {
		logLevel = logger.Info
	}

	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = gorm.Open(d, &gorm.Config{
			Logger: logger.Default.LogMode(logLevel),
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		return sqlDB.Ping()
	}

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = 30 * time.Second
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	notify := func(err error, wait time.Duration) {
		applog.Log.Warn("Database connection failed, retrying",
			zap.Error(err),
			zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(connect, backoff.WithMaxRetries(retry, uint64(maxRetries)), notify); err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// sqlite 需要显式打开外键约束，单连接避免锁冲突
		db.Exec("PRAGMA foreign_keys = ON")
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	applog.Log.Info("Database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	applog.Log.Info("Database migration completed")
	return nil
}

// Seed 按表写入 ICD201 初始数据：资源表为空时写入资源，单元表为空时写入单元和课时，
// 事件表也为空时再写入事件。设置表单独保证存在一条记录
func Seed(db *gorm.DB) error {
	var settingsCount int64
	if err := db.Model(&model.CourseSettings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		s := fixture.Settings()
		if err := db.Create(&s).Error; err != nil {
			return err
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var resourceCount, unitCount, eventCount int64
		if err := tx.Model(&model.Resource{}).Count(&resourceCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Unit{}).Count(&unitCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CalendarEvent{}).Count(&eventCount).Error; err != nil {
			return err
		}

		if resourceCount == 0 {
			resources := fixture.Resources()
			for i := range resources {
				resources[i].Position = i + 1
			}
			if err := tx.Create(&resources).Error; err != nil {
				return err
			}
		}
		if unitCount > 0 {
			return nil
		}

		// 课时和事件只保留当前仍存在的资源
		var ids []string
		if err := tx.Model(&model.Resource{}).Pluck("id", &ids).Error; err != nil {
			return err
		}
		known := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			known[id] = struct{}{}
		}

		for _, u := range fixture.Units() {
			unit := u
			for i := range unit.Lessons {
				unit.Lessons[i].Resources = knownOnly(unit.Lessons[i].Resources, known)
			}
			if err := tx.Create(&unit).Error; err != nil {
				return err
			}
		}
		if eventCount > 0 {
			return nil
		}
		events := fixture.Events()
		for i := range events {
			events[i].Resources = knownOnly(events[i].Resources, known)
		}
		return tx.Create(&events).Error
	})
	if err != nil {
		return fmt.Errorf("seed fixtures: %w", err)
	}

	applog.Log.Info("Fixture data seeded")
	return nil
}

func knownOnly(list []string, known map[string]struct{}) []string {
	out := make([]string, 0, len(list))
	for _, id := range list {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
