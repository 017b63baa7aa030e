package inits

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	Debug        bool // 输出 SQL
}

func DB(conn string, opts DBOptions) (db *gorm.DB, err error) {
	logLevel := logger.Warn
	if opts.Debug {
		logLevel = logger.Info
	}

	// 打开连接
	if db, err = gorm.Open(postgres.Open(conn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// 返回
	return db, nil
}
