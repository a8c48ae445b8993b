package database

import (
	"ReaView/internal/model"
	"fmt"
	log "log/slog"

	"gorm.io/gorm"
)

// Migrate 同步表结构，users 表由认证服务维护，这里只保证其存在
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Item{},
		&model.Review{},
		&model.Rating{},
		&model.Activity{},
		&model.UserFollow{},
		&model.ReviewLike{},
		&model.ItemLike{},
		&model.ReviewComment{},
		&model.UserLibrary{},
		&model.CustomList{},
		&model.ListItem{},
		&model.IDAllocator{},
		&model.IDFreeSlot{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database schema migrated.")
	return nil
}
