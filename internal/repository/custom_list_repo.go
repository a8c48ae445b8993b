package repository

import (
	"ReaView/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CustomListRepo interface {
	WithTx(tx *gorm.DB) CustomListRepo
	CreateList(ctx context.Context, list *model.CustomList) error
	UpdateList(ctx context.Context, list *model.CustomList) error
	DeleteList(ctx context.Context, listID uint64) error
	GetListById(ctx context.Context, listID uint64) (*model.CustomList, error)
	GetListsByUser(ctx context.Context, userID uint64) ([]*model.CustomList, error)

	AddListItem(ctx context.Context, item *model.ListItem) error
	DeleteListItem(ctx context.Context, listID, listItemID uint64) (*model.ListItem, error)
	DeleteListItemsByList(ctx context.Context, listID uint64) error
	GetListItems(ctx context.Context, listID uint64) ([]*model.ListItem, error)
	GetListItemCounts(ctx context.Context, listIDs []uint64) (map[uint64]int64, error)
	ExistsListItem(ctx context.Context, listID uint64, itemID *uint64, source, externalID string) (bool, error)
	NextPosition(ctx context.Context, listID uint64) (int, error)
}

type CustomListRepoImpl struct {
	db *gorm.DB
}

func NewCustomListRepo(db *gorm.DB) CustomListRepo {
	return &CustomListRepoImpl{db: db}
}

func (s *CustomListRepoImpl) WithTx(tx *gorm.DB) CustomListRepo {
	return &CustomListRepoImpl{db: tx}
}

func (s *CustomListRepoImpl) CreateList(ctx context.Context, list *model.CustomList) error {
	return s.db.WithContext(ctx).Create(list).Error
}

func (s *CustomListRepoImpl) UpdateList(ctx context.Context, list *model.CustomList) error {
	return s.db.WithContext(ctx).
		Model(&model.CustomList{}).
		Where("id = ?", list.ID).
		Updates(map[string]any{
			"name":          list.Name,
			"description":   list.Description,
			"privacy_level": list.PrivacyLevel,
			"updated_at":    list.UpdatedAt,
		}).Error
}

func (s *CustomListRepoImpl) DeleteList(ctx context.Context, listID uint64) error {
	return s.db.WithContext(ctx).Delete(&model.CustomList{}, listID).Error
}

func (s *CustomListRepoImpl) GetListById(ctx context.Context, listID uint64) (*model.CustomList, error) {
	var list model.CustomList
	err := s.db.WithContext(ctx).First(&list, listID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (s *CustomListRepoImpl) GetListsByUser(ctx context.Context, userID uint64) ([]*model.CustomList, error) {
	lists := make([]*model.CustomList, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&lists).Error
	return lists, err
}

func (s *CustomListRepoImpl) AddListItem(ctx context.Context, item *model.ListItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// DeleteListItem 返回被删除的条目，不存在时返回 nil
func (s *CustomListRepoImpl) DeleteListItem(ctx context.Context, listID, listItemID uint64) (*model.ListItem, error) {
	var item model.ListItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", listItemID, listID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err = s.db.WithContext(ctx).Delete(&model.ListItem{}, item.ID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CustomListRepoImpl) DeleteListItemsByList(ctx context.Context, listID uint64) error {
	return s.db.WithContext(ctx).Where("list_id = ?", listID).Delete(&model.ListItem{}).Error
}

func (s *CustomListRepoImpl) GetListItems(ctx context.Context, listID uint64) ([]*model.ListItem, error) {
	items := make([]*model.ListItem, 0)
	err := s.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("position ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (s *CustomListRepoImpl) GetListItemCounts(ctx context.Context, listIDs []uint64) (map[uint64]int64, error) {
	res := make(map[uint64]int64, len(listIDs))
	if len(listIDs) == 0 {
		return res, nil
	}
	var rows []groupCount
	err := s.db.WithContext(ctx).Model(&model.ListItem{}).
		Select("list_id AS target_id, COUNT(*) AS cnt").
		Where("list_id IN ?", listIDs).
		Group("list_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.TargetID] = r.Cnt
	}
	return res, nil
}

func (s *CustomListRepoImpl) ExistsListItem(ctx context.Context, listID uint64, itemID *uint64, source, externalID string) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&model.ListItem{}).Where("list_id = ?", listID)
	if itemID != nil {
		query = query.Where("item_id = ?", *itemID)
	} else {
		query = query.Where("external_source = ? AND external_id = ?", source, externalID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (s *CustomListRepoImpl) NextPosition(ctx context.Context, listID uint64) (int, error) {
	var maxPos int
	err := s.db.WithContext(ctx).Model(&model.ListItem{}).
		Select("COALESCE(MAX(position), 0)").
		Where("list_id = ?", listID).
		Scan(&maxPos).Error
	return maxPos + 1, err
}
