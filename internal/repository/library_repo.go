package repository

import (
	"ReaView/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LibraryRepo interface {
	WithTx(tx *gorm.DB) LibraryRepo
	GetEntryForUpdate(ctx context.Context, userID, itemID uint64) (*model.UserLibrary, error)
	GetEntry(ctx context.Context, userID, itemID uint64) (*model.UserLibrary, error)
	CreateEntry(ctx context.Context, entry *model.UserLibrary) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
	DeleteEntry(ctx context.Context, userID, itemID uint64, status string) (int64, error)
	GetEntriesByUser(ctx context.Context, userID uint64, status string) ([]*model.UserLibrary, error)
}

type LibraryRepoImpl struct {
	db *gorm.DB
}

func NewLibraryRepo(db *gorm.DB) LibraryRepo {
	return &LibraryRepoImpl{db: db}
}

func (s *LibraryRepoImpl) WithTx(tx *gorm.DB) LibraryRepo {
	return &LibraryRepoImpl{db: tx}
}

func (s *LibraryRepoImpl) GetEntryForUpdate(ctx context.Context, userID, itemID uint64) (*model.UserLibrary, error) {
	return s.first(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, itemID)
}

func (s *LibraryRepoImpl) GetEntry(ctx context.Context, userID, itemID uint64) (*model.UserLibrary, error) {
	return s.first(s.db.WithContext(ctx), userID, itemID)
}

func (s *LibraryRepoImpl) first(db *gorm.DB, userID, itemID uint64) (*model.UserLibrary, error) {
	var entry model.UserLibrary
	err := db.Where("user_id = ? AND item_id = ?", userID, itemID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *LibraryRepoImpl) CreateEntry(ctx context.Context, entry *model.UserLibrary) error {
	return s.db.WithContext(ctx).Omit("Item").Create(entry).Error
}

// UpdateStatus 原地修改状态，主键保持不变
func (s *LibraryRepoImpl) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return s.db.WithContext(ctx).
		Model(&model.UserLibrary{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

// DeleteEntry 只删除状态匹配的记录
func (s *LibraryRepoImpl) DeleteEntry(ctx context.Context, userID, itemID uint64, status string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND status = ?", userID, itemID, status).
		Delete(&model.UserLibrary{})
	return result.RowsAffected, result.Error
}

func (s *LibraryRepoImpl) GetEntriesByUser(ctx context.Context, userID uint64, status string) ([]*model.UserLibrary, error) {
	entries := make([]*model.UserLibrary, 0)
	query := s.db.WithContext(ctx).Preload("Item").Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("updated_at DESC").Find(&entries).Error
	return entries, err
}
