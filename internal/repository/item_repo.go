package repository

import (
	"ReaView/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ItemRepo interface {
	GetItemById(ctx context.Context, id uint64) (*model.Item, error)
	GetItemByIds(ctx context.Context, ids []uint64) ([]*model.Item, error)
	GetItemByExternalId(ctx context.Context, externalID string) (*model.Item, error)
	ListItems(ctx context.Context, itemType string, limit, offset int) ([]*model.Item, error)
	ListAllItems(ctx context.Context) ([]*model.Item, error)
	SearchItems(ctx context.Context, keyword, itemType string, limit int) ([]*model.Item, error)
	GetItemsMissingPoster(ctx context.Context, afterID uint64, limit int) ([]*model.Item, error)
	UpdatePosterURL(ctx context.Context, id uint64, posterURL string) (bool, error)
	CreateItem(ctx context.Context, item *model.Item) error
}

type ItemRepoImpl struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepo {
	return &ItemRepoImpl{db: db}
}

func (s *ItemRepoImpl) GetItemById(ctx context.Context, id uint64) (*model.Item, error) {
	item := &model.Item{}
	result := s.db.WithContext(ctx).First(item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return item, nil
}

func (s *ItemRepoImpl) GetItemByIds(ctx context.Context, ids []uint64) ([]*model.Item, error) {
	items := make([]*model.Item, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// GetItemByExternalId 按外部来源 ID 查询条目
func (s *ItemRepoImpl) GetItemByExternalId(ctx context.Context, externalID string) (*model.Item, error) {
	item := &model.Item{}
	result := s.db.WithContext(ctx).
		Where("external_api_id = ?", externalID).
		Order("id asc").
		First(item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return item, nil
}

func (s *ItemRepoImpl) ListItems(ctx context.Context, itemType string, limit, offset int) ([]*model.Item, error) {
	items := make([]*model.Item, 0, limit)
	query := s.db.WithContext(ctx).Model(&model.Item{})
	if itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}
	result := query.Order("id asc").Limit(limit).Offset(offset).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (s *ItemRepoImpl) ListAllItems(ctx context.Context) ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	result := s.db.WithContext(ctx).Order("id asc").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// SearchItems 标题或简介模糊匹配
func (s *ItemRepoImpl) SearchItems(ctx context.Context, keyword, itemType string, limit int) ([]*model.Item, error) {
	items := make([]*model.Item, 0, limit)
	like := "%" + keyword + "%"
	query := s.db.WithContext(ctx).
		Where("title LIKE ? OR description LIKE ?", like, like)
	if itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}
	result := query.Order("id asc").Limit(limit).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// GetItemsMissingPoster 游标分页获取缺少海报的条目
func (s *ItemRepoImpl) GetItemsMissingPoster(ctx context.Context, afterID uint64, limit int) ([]*model.Item, error) {
	items := make([]*model.Item, 0, limit)
	result := s.db.WithContext(ctx).
		Where("id > ? AND (poster_url = '' OR poster_url IS NULL)", afterID).
		Order("id asc").
		Limit(limit).
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// UpdatePosterURL 仅在海报仍为空时写入，返回是否实际更新
func (s *ItemRepoImpl) UpdatePosterURL(ctx context.Context, id uint64, posterURL string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ? AND (poster_url = '' OR poster_url IS NULL)", id).
		Update("poster_url", posterURL)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *ItemRepoImpl) CreateItem(ctx context.Context, item *model.Item) error {
	return s.db.WithContext(ctx).Create(item).Error
}
