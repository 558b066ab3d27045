// Package database 提供数据库连接管理
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

var db *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.DatabaseConfig) error {
	logLevel := gormlogger.Warn
	if cfg.LogMode {
		logLevel = gormlogger.Info
	}

	var err error
	db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	logger.Info("database connected",
		logger.String("host", cfg.Host),
		logger.String("name", cfg.Name),
	)
	return nil
}

// AutoMigrate 自动迁移数据表结构
func AutoMigrate() error {
	return db.AutoMigrate(
		&models.Guest{},
		&models.RoomType{},
		&models.Room{},
		&models.Reservation{},
		&models.LedgerEntry{},
		&models.PaymentMode{},
		&models.ServiceOrder{},
		&models.HotelPolicy{},
		&models.ActivityLog{},
		&models.Staff{},
		&models.Role{},
		&models.Permission{},
	)
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return db
}

// Close 关闭数据库连接
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
