package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"ReaView/internal/pkg/util"
	"ReaView/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

const (
	defaultItemLimit     = 20
	maxItemLimit         = 100
	defaultFeaturedLimit = 10
)

type ItemService interface {
	ListItems(ctx context.Context, viewerID uint64, query *dto.ItemQueryDTO) ([]*dto.ItemDTO, error)
	GetItem(ctx context.Context, viewerID, itemID uint64) (*dto.ItemDTO, error)
	GetFeatured(ctx context.Context, viewerID uint64, order, itemType string, limit int) ([]*dto.ItemDTO, error)
	CreateItem(ctx context.Context, req *dto.ItemCreateDTO) (*dto.ItemDTO, error)
}

type itemServiceImpl struct {
	itemRepo      repository.ItemRepo
	actionRepo    repository.ReviewActionRepo
	ratingService RatingService
	posterService PosterService
}

func NewItemService(
	itemRepo repository.ItemRepo,
	actionRepo repository.ReviewActionRepo,
	ratingService RatingService,
	posterService PosterService,
) ItemService {
	return &itemServiceImpl{
		itemRepo:      itemRepo,
		actionRepo:    actionRepo,
		ratingService: ratingService,
		posterService: posterService,
	}
}

func (s *itemServiceImpl) ListItems(ctx context.Context, viewerID uint64, query *dto.ItemQueryDTO) ([]*dto.ItemDTO, error) {
	skip, limit := util.NormalizePage(query.Skip, query.Limit, defaultItemLimit, maxItemLimit)

	var items []*model.Item
	var err error
	if query.Keyword != "" {
		items, err = s.itemRepo.SearchItems(ctx, query.Keyword, query.ItemType, limit)
	} else {
		items, err = s.itemRepo.ListItems(ctx, query.ItemType, limit, skip)
	}
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratingService.CalculateRatings(ctx, items)
	if err != nil {
		return nil, err
	}
	return s.toItemDTOs(ctx, viewerID, items, ratings)
}

// GetItem 缺图时同步补全一次海报
func (s *itemServiceImpl) GetItem(ctx context.Context, viewerID, itemID uint64) (*dto.ItemDTO, error) {
	item, err := s.itemRepo.GetItemById(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if s.posterService != nil {
		item = s.posterService.Enrich(ctx, item)
	}

	ratings, err := s.ratingService.CalculateRatings(ctx, []*model.Item{item})
	if err != nil {
		return nil, err
	}
	res, err := s.toItemDTOs(ctx, viewerID, []*model.Item{item}, ratings)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (s *itemServiceImpl) GetFeatured(ctx context.Context, viewerID uint64, order, itemType string, limit int) ([]*dto.ItemDTO, error) {
	if order != RankTopRated && order != RankPopular {
		return nil, ErrParamInvalid
	}
	_, limit = util.NormalizePage(0, limit, defaultFeaturedLimit, maxItemLimit)

	ranked, err := s.ratingService.RankItems(ctx, itemType, order, limit)
	if err != nil {
		return nil, err
	}
	items := make([]*model.Item, 0, len(ranked))
	ratings := make(map[uint64]*dto.RatingDTO, len(ranked))
	for _, r := range ranked {
		items = append(items, r.Item)
		ratings[r.Item.ID] = r.Rating
	}
	return s.toItemDTOs(ctx, viewerID, items, ratings)
}

// CreateItem 外部来源 ID 已存在时返回 ErrItemExist
func (s *itemServiceImpl) CreateItem(ctx context.Context, req *dto.ItemCreateDTO) (*dto.ItemDTO, error) {
	if req.ExternalAPIID != "" {
		existing, err := s.itemRepo.GetItemByExternalId(ctx, req.ExternalAPIID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrItemExist
		}
	}

	item := &model.Item{}
	if err := copier.Copy(item, req); err != nil {
		return nil, err
	}
	item.Title = util.SanitizeText(item.Title)
	item.Description = util.SanitizeText(item.Description)
	if item.Title == "" {
		return nil, ErrParamInvalid
	}
	item.CreatedAt = time.Now()

	if err := s.itemRepo.CreateItem(ctx, item); err != nil {
		if isDuplicateError(err) {
			return nil, ErrItemExist
		}
		return nil, err
	}

	ratings := map[uint64]*dto.RatingDTO{item.ID: ComputeRating(item.ExternalRating, nil, nil)}
	res, err := s.toItemDTOs(ctx, 0, []*model.Item{item}, ratings)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (s *itemServiceImpl) toItemDTOs(ctx context.Context, viewerID uint64, items []*model.Item, ratings map[uint64]*dto.RatingDTO) ([]*dto.ItemDTO, error) {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	likeCounts, err := s.actionRepo.GetItemLikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.actionRepo.GetLikedItemIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	likedSet := idSet(liked)

	res := make([]*dto.ItemDTO, 0, len(items))
	for _, it := range items {
		d := &dto.ItemDTO{
			ID:                it.ID,
			Title:             it.Title,
			ItemType:          it.ItemType,
			Year:              it.Year,
			Description:       it.Description,
			PosterURL:         it.PosterURL,
			ExternalAPIID:     it.ExternalAPIID,
			ExternalAPISource: it.ExternalAPISource,
			Genres:            it.Genres,
			Authors:           it.Authors,
			Director:          it.Director,
			Actors:            it.Actors,
			PageCount:         it.PageCount,
			LikeCount:         likeCounts[it.ID],
			CreatedAt:         util.FormatTime(it.CreatedAt),
		}
		_, d.IsLikedByUser = likedSet[it.ID]
		if r, ok := ratings[it.ID]; ok && r != nil {
			d.RatingDTO = *r
		} else {
			d.RatingDTO = *ComputeRating(it.ExternalRating, nil, nil)
		}
		res = append(res, d)
	}
	return res, nil
}
