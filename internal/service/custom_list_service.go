package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"ReaView/internal/pkg/util"
	"ReaView/internal/repository"
	"context"
	"time"

	"gorm.io/gorm"
)

type CustomListService interface {
	CreateList(ctx context.Context, userID uint64, req *dto.CustomListCreateDTO) (*dto.CustomListDTO, error)
	UpdateList(ctx context.Context, userID, listID uint64, req *dto.CustomListUpdateDTO) (*dto.CustomListDTO, error)
	DeleteList(ctx context.Context, userID, listID uint64) error
	GetList(ctx context.Context, viewerID, listID uint64) (*dto.CustomListDetailDTO, error)
	GetListItems(ctx context.Context, viewerID, listID uint64) ([]*dto.ListItemDTO, error)
	GetUserLists(ctx context.Context, viewerID, ownerID uint64) ([]*dto.CustomListDTO, error)
	AddItem(ctx context.Context, userID, listID uint64, req *dto.ListItemAddDTO) (*dto.ListItemDTO, error)
	RemoveItem(ctx context.Context, userID, listID, listItemID uint64) error
}

type customListServiceImpl struct {
	transactor   repository.Transactor
	listRepo     repository.CustomListRepo
	itemRepo     repository.ItemRepo
	followRepo   repository.UserFollowRepo
	activityRepo repository.ActivityRepo
}

func NewCustomListService(
	transactor repository.Transactor,
	listRepo repository.CustomListRepo,
	itemRepo repository.ItemRepo,
	followRepo repository.UserFollowRepo,
	activityRepo repository.ActivityRepo,
) CustomListService {
	return &customListServiceImpl{
		transactor:   transactor,
		listRepo:     listRepo,
		itemRepo:     itemRepo,
		followRepo:   followRepo,
		activityRepo: activityRepo,
	}
}

func (s *customListServiceImpl) CreateList(ctx context.Context, userID uint64, req *dto.CustomListCreateDTO) (*dto.CustomListDTO, error) {
	name := util.SanitizeText(req.Name)
	if name == "" {
		return nil, ErrParamInvalid
	}
	privacy := model.PrivacyPublic
	if req.PrivacyLevel != nil {
		privacy = *req.PrivacyLevel
	}
	if privacy < model.PrivacyPrivate || privacy > model.PrivacyPublic {
		return nil, ErrParamInvalid
	}

	now := time.Now()
	list := &model.CustomList{
		UserID:       userID,
		Name:         name,
		Description:  util.SanitizeText(req.Description),
		PrivacyLevel: privacy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.listRepo.CreateList(ctx, list); err != nil {
		return nil, err
	}
	return toCustomListDTO(list, 0), nil
}

// getOwnedList 仅所有者可修改
func (s *customListServiceImpl) getOwnedList(ctx context.Context, userID, listID uint64) (*model.CustomList, error) {
	list, err := s.listRepo.GetListById(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	if list.UserID != userID {
		return nil, UnauthorizedError
	}
	return list, nil
}

// getVisibleList 不存在返回 ErrListNotFound，无权查看返回 ErrListForbidden
func (s *customListServiceImpl) getVisibleList(ctx context.Context, viewerID, listID uint64) (*model.CustomList, error) {
	list, err := s.listRepo.GetListById(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	ok, err := newPrivacyResolver(s.followRepo, viewerID).canView(ctx, list.UserID, list.PrivacyLevel)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrListForbidden
	}
	return list, nil
}

func (s *customListServiceImpl) UpdateList(ctx context.Context, userID, listID uint64, req *dto.CustomListUpdateDTO) (*dto.CustomListDTO, error) {
	list, err := s.getOwnedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := util.SanitizeText(*req.Name)
		if name == "" {
			return nil, ErrParamInvalid
		}
		list.Name = name
	}
	if req.Description != nil {
		list.Description = util.SanitizeText(*req.Description)
	}
	if req.PrivacyLevel != nil {
		if *req.PrivacyLevel < model.PrivacyPrivate || *req.PrivacyLevel > model.PrivacyPublic {
			return nil, ErrParamInvalid
		}
		list.PrivacyLevel = *req.PrivacyLevel
	}
	list.UpdatedAt = time.Now()
	if err = s.listRepo.UpdateList(ctx, list); err != nil {
		return nil, err
	}

	counts, err := s.listRepo.GetListItemCounts(ctx, []uint64{list.ID})
	if err != nil {
		return nil, err
	}
	return toCustomListDTO(list, counts[list.ID]), nil
}

// DeleteList 连同条目与 list_add 动态一起删除
func (s *customListServiceImpl) DeleteList(ctx context.Context, userID, listID uint64) error {
	if _, err := s.getOwnedList(ctx, userID, listID); err != nil {
		return err
	}
	return s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		listRepo := s.listRepo.WithTx(tx)
		if err := listRepo.DeleteListItemsByList(ctx, listID); err != nil {
			return err
		}
		if err := s.activityRepo.WithTx(tx).DeleteByList(ctx, listID); err != nil {
			return err
		}
		return listRepo.DeleteList(ctx, listID)
	})
}

func (s *customListServiceImpl) GetList(ctx context.Context, viewerID, listID uint64) (*dto.CustomListDetailDTO, error) {
	list, err := s.getVisibleList(ctx, viewerID, listID)
	if err != nil {
		return nil, err
	}
	items, err := s.loadItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CustomListDetailDTO{
		CustomListDTO: *toCustomListDTO(list, int64(len(items))),
		Items:         items,
	}, nil
}

func (s *customListServiceImpl) GetListItems(ctx context.Context, viewerID, listID uint64) ([]*dto.ListItemDTO, error) {
	list, err := s.getVisibleList(ctx, viewerID, listID)
	if err != nil {
		return nil, err
	}
	return s.loadItems(ctx, list.ID)
}

// GetUserLists 只返回访问者可见的片单
func (s *customListServiceImpl) GetUserLists(ctx context.Context, viewerID, ownerID uint64) ([]*dto.CustomListDTO, error) {
	lists, err := s.listRepo.GetListsByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	resolver := newPrivacyResolver(s.followRepo, viewerID)
	visible := make([]*model.CustomList, 0, len(lists))
	ids := make([]uint64, 0, len(lists))
	for _, l := range lists {
		ok, err := resolver.canView(ctx, l.UserID, l.PrivacyLevel)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, l)
			ids = append(ids, l.ID)
		}
	}

	counts, err := s.listRepo.GetListItemCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.CustomListDTO, 0, len(visible))
	for _, l := range visible {
		res = append(res, toCustomListDTO(l, counts[l.ID]))
	}
	return res, nil
}

// AddItem 目录内条目会写入 list_add 动态
func (s *customListServiceImpl) AddItem(ctx context.Context, userID, listID uint64, req *dto.ListItemAddDTO) (*dto.ListItemDTO, error) {
	if _, err := s.getOwnedList(ctx, userID, listID); err != nil {
		return nil, err
	}

	var catalog *model.Item
	if req.ItemID != nil {
		item, err := s.itemRepo.GetItemById(ctx, *req.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, ErrItemNotFound
		}
		catalog = item
	} else if req.ExternalSource == "" || req.ExternalID == "" {
		return nil, ErrParamInvalid
	}

	entry := &model.ListItem{
		ListID:    listID,
		ItemID:    req.ItemID,
		CreatedAt: time.Now(),
	}
	if catalog != nil {
		entry.Title = catalog.Title
		entry.PosterURL = catalog.PosterURL
	} else {
		entry.ExternalSource = req.ExternalSource
		entry.ExternalID = req.ExternalID
		entry.Title = util.SanitizeText(req.Title)
		entry.PosterURL = req.PosterURL
	}

	err := s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		listRepo := s.listRepo.WithTx(tx)
		exists, err := listRepo.ExistsListItem(ctx, listID, req.ItemID, req.ExternalSource, req.ExternalID)
		if err != nil {
			return err
		}
		if exists {
			return ErrListItemExist
		}
		if entry.Position, err = listRepo.NextPosition(ctx, listID); err != nil {
			return err
		}
		if err = listRepo.AddListItem(ctx, entry); err != nil {
			return err
		}
		if catalog == nil {
			return nil
		}
		itemID, lid := catalog.ID, listID
		return s.activityRepo.WithTx(tx).CreateActivity(ctx, &model.Activity{
			ActivityType: model.ActivityListAdd,
			UserID:       userID,
			ItemID:       &itemID,
			ListID:       &lid,
			CreatedAt:    entry.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	res := toListItemDTO(entry)
	if catalog != nil {
		res.ItemType = catalog.ItemType
	}
	return res, nil
}

func (s *customListServiceImpl) RemoveItem(ctx context.Context, userID, listID, listItemID uint64) error {
	if _, err := s.getOwnedList(ctx, userID, listID); err != nil {
		return err
	}
	return s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		removed, err := s.listRepo.WithTx(tx).DeleteListItem(ctx, listID, listItemID)
		if err != nil {
			return err
		}
		if removed == nil {
			return ErrListItemNotFound
		}
		if removed.ItemID == nil {
			return nil
		}
		return s.activityRepo.WithTx(tx).DeleteListAdd(ctx, listID, *removed.ItemID)
	})
}

// loadItems 目录内条目以当前条目数据为准，已删除的条目保留快照
func (s *customListServiceImpl) loadItems(ctx context.Context, listID uint64) ([]*dto.ListItemDTO, error) {
	entries, err := s.listRepo.GetListItems(ctx, listID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(entries))
	for _, e := range entries {
		if e.ItemID != nil {
			ids = append(ids, *e.ItemID)
		}
	}
	items, err := s.itemRepo.GetItemByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	itemMap := make(map[uint64]*model.Item, len(items))
	for _, it := range items {
		itemMap[it.ID] = it
	}

	res := make([]*dto.ListItemDTO, 0, len(entries))
	for _, e := range entries {
		d := toListItemDTO(e)
		if e.ItemID != nil {
			if it, ok := itemMap[*e.ItemID]; ok {
				d.Title = it.Title
				d.ItemType = it.ItemType
				d.PosterURL = it.PosterURL
			}
		}
		res = append(res, d)
	}
	return res, nil
}

func toCustomListDTO(l *model.CustomList, itemCount int64) *dto.CustomListDTO {
	return &dto.CustomListDTO{
		ID:           l.ID,
		UserID:       l.UserID,
		Name:         l.Name,
		Description:  l.Description,
		PrivacyLevel: l.PrivacyLevel,
		ItemCount:    itemCount,
		CreatedAt:    util.FormatTime(l.CreatedAt),
		UpdatedAt:    util.FormatTime(l.UpdatedAt),
	}
}

func toListItemDTO(e *model.ListItem) *dto.ListItemDTO {
	return &dto.ListItemDTO{
		ID:             e.ID,
		ItemID:         e.ItemID,
		ExternalSource: e.ExternalSource,
		ExternalID:     e.ExternalID,
		Title:          e.Title,
		PosterURL:      e.PosterURL,
		Position:       e.Position,
		AddedAt:        util.FormatTime(e.CreatedAt),
	}
}
