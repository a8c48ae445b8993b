package database

import (
	"ReaView/internal/api/config"
	"ReaView/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultMaxIdle     = 10
	defaultMaxOpen     = 50
	defaultMaxLifetime = 30
)

// NewGormDB 打开 MySQL 连接；唯一键冲突统一翻译为 gorm.ErrDuplicatedKey
func NewGormDB(cfg *config.DBConfig, logLevel string) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty")
	}

	level := gormlogger.Warn
	if logLevel == "debug" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.NewGormLogger().LogMode(level),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdle, defaultMaxIdle))
	sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpen, defaultMaxOpen))
	sqlDB.SetConnMaxLifetime(time.Duration(orDefault(cfg.MaxLifetime, defaultMaxLifetime)) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	log.Info("Database connection established successfully.", "max_open", orDefault(cfg.MaxOpen, defaultMaxOpen))
	return db, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
