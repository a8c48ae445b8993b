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

const (
	LibraryActionAdd    = "add"
	LibraryActionRemove = "remove"
)

var libraryStatuses = map[string]struct{}{
	model.LibraryRead:    {},
	model.LibraryToRead:  {},
	model.LibraryWatched: {},
	model.LibraryToWatch: {},
}

type LibraryService interface {
	Add(ctx context.Context, userID, itemID uint64, status string) (*dto.LibraryResultDTO, error)
	Remove(ctx context.Context, userID, itemID uint64, status string) (*dto.LibraryResultDTO, error)
	GetItemStatus(ctx context.Context, userID, itemID uint64) (*dto.ItemLibraryStatusDTO, error)
	GetLibrary(ctx context.Context, userID uint64, status string) (*dto.LibraryDTO, error)
}

type libraryServiceImpl struct {
	transactor  repository.Transactor
	libraryRepo repository.LibraryRepo
	itemRepo    repository.ItemRepo
}

func NewLibraryService(transactor repository.Transactor, libraryRepo repository.LibraryRepo, itemRepo repository.ItemRepo) LibraryService {
	return &libraryServiceImpl{
		transactor:  transactor,
		libraryRepo: libraryRepo,
		itemRepo:    itemRepo,
	}
}

func (s *libraryServiceImpl) checkItem(ctx context.Context, itemID uint64, status string) error {
	if _, ok := libraryStatuses[status]; !ok {
		return ErrLibraryStatusInvalid
	}
	item, err := s.itemRepo.GetItemById(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	return nil
}

// Add 每个 (用户, 条目) 仅保留一行：状态不同则原地更新，相同则不做修改
// 并发插入撞上唯一键时重读一次，按已存在处理
func (s *libraryServiceImpl) Add(ctx context.Context, userID, itemID uint64, status string) (*dto.LibraryResultDTO, error) {
	if err := s.checkItem(ctx, itemID, status); err != nil {
		return nil, err
	}

	res, err := s.upsert(ctx, userID, itemID, status)
	if isDuplicateError(err) {
		res, err = s.upsert(ctx, userID, itemID, status)
	}
	if err != nil {
		if isDuplicateError(err) {
			return nil, ErrActionDuplicate
		}
		return nil, err
	}
	return res, nil
}

func (s *libraryServiceImpl) upsert(ctx context.Context, userID, itemID uint64, status string) (*dto.LibraryResultDTO, error) {
	res := &dto.LibraryResultDTO{ItemID: itemID, Status: status, Action: LibraryActionAdd}
	err := s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.libraryRepo.WithTx(tx)
		entry, err := repo.GetEntryForUpdate(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if entry != nil {
			res.LibraryID = entry.ID
			if entry.Status == status {
				res.AlreadyPresent = true
				return nil
			}
			res.Updated = true
			return repo.UpdateStatus(ctx, entry.ID, status)
		}

		now := time.Now()
		entry = &model.UserLibrary{
			UserID:    userID,
			ItemID:    itemID,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = repo.CreateEntry(ctx, entry); err != nil {
			return err
		}
		res.LibraryID = entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Remove 只删除状态一致的记录
func (s *libraryServiceImpl) Remove(ctx context.Context, userID, itemID uint64, status string) (*dto.LibraryResultDTO, error) {
	if err := s.checkItem(ctx, itemID, status); err != nil {
		return nil, err
	}
	deleted, err := s.libraryRepo.DeleteEntry(ctx, userID, itemID, status)
	if err != nil {
		return nil, err
	}
	return &dto.LibraryResultDTO{
		ItemID:       itemID,
		Status:       status,
		Action:       LibraryActionRemove,
		DeletedCount: deleted,
	}, nil
}

func (s *libraryServiceImpl) GetItemStatus(ctx context.Context, userID, itemID uint64) (*dto.ItemLibraryStatusDTO, error) {
	res := &dto.ItemLibraryStatusDTO{ItemID: itemID}
	if userID == 0 {
		return res, nil
	}
	entry, err := s.libraryRepo.GetEntry(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		res.InLibrary = true
		res.Status = entry.Status
	}
	return res, nil
}

func (s *libraryServiceImpl) GetLibrary(ctx context.Context, userID uint64, status string) (*dto.LibraryDTO, error) {
	if status != "" {
		if _, ok := libraryStatuses[status]; !ok {
			return nil, ErrLibraryStatusInvalid
		}
	}
	entries, err := s.libraryRepo.GetEntriesByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.LibraryEntryDTO, 0, len(entries))
	for _, e := range entries {
		// 条目已被删除的记录不展示
		if e.Item.ID == 0 {
			continue
		}
		items = append(items, &dto.LibraryEntryDTO{
			LibraryID: e.ID,
			ItemID:    e.ItemID,
			Status:    e.Status,
			Title:     e.Item.Title,
			ItemType:  e.Item.ItemType,
			PosterURL: e.Item.PosterURL,
			AddedAt:   util.FormatTime(e.CreatedAt),
		})
	}
	return &dto.LibraryDTO{
		UserID:       userID,
		StatusFilter: status,
		Items:        items,
		Total:        len(items),
	}, nil
}
