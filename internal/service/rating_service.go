package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"ReaView/internal/repository"
	"context"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"
)

const (
	RankTopRated = "top-rated"
	RankPopular  = "popular"
)

// RankedItem 条目及其实时评分
type RankedItem struct {
	Item   *model.Item
	Rating *dto.RatingDTO
}

type RatingService interface {
	CalculateRating(ctx context.Context, itemID uint64) (*dto.RatingDTO, error)
	CalculateRatings(ctx context.Context, items []*model.Item) (map[uint64]*dto.RatingDTO, error)
	RankItems(ctx context.Context, itemType, order string, limit int) ([]*RankedItem, error)
	RateItem(ctx context.Context, userID, itemID uint64, score int) (*dto.RateResultDTO, error)
	RateBySourceID(ctx context.Context, userID uint64, sourceID string, score int) (*dto.RateResultDTO, error)
	DeleteRating(ctx context.Context, userID, itemID uint64) error
}

type ratingServiceImpl struct {
	transactor   repository.Transactor
	itemRepo     repository.ItemRepo
	reviewRepo   repository.ReviewRepo
	ratingRepo   repository.RatingRepo
	activityRepo repository.ActivityRepo
	slotRepo     repository.IDSlotRepo
}

func NewRatingService(
	transactor repository.Transactor,
	itemRepo repository.ItemRepo,
	reviewRepo repository.ReviewRepo,
	ratingRepo repository.RatingRepo,
	activityRepo repository.ActivityRepo,
	slotRepo repository.IDSlotRepo,
) RatingService {
	return &ratingServiceImpl{
		transactor:   transactor,
		itemRepo:     itemRepo,
		reviewRepo:   reviewRepo,
		ratingRepo:   ratingRepo,
		activityRepo: activityRepo,
		slotRepo:     slotRepo,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampRating(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}

// ComputeRating 由外部评分与两类用户评分信号合成混合评分，nil 视为无数据
func ComputeRating(external float64, reviews, ratings *repository.ScoreStats) *dto.RatingDTO {
	var rAvg, sAvg float64
	var rN, sN int64
	if reviews != nil {
		rAvg, rN = reviews.Avg, reviews.Cnt
	}
	if ratings != nil {
		sAvg, sN = ratings.Avg, ratings.Cnt
	}

	res := &dto.RatingDTO{
		ExternalRating: clampRating(round1(external)),
		ReviewCount:    rN + sN,
		Popularity:     rN + sN,
	}
	if n := rN + sN; n > 0 {
		res.UserRating = clampRating(round1((rAvg*float64(rN) + sAvg*float64(sN)) / float64(n)))
	}

	switch {
	case res.ExternalRating > 0 && res.UserRating > 0:
		res.CombinedRating = round1((res.ExternalRating + res.UserRating) / 2)
	case res.ExternalRating > 0:
		res.CombinedRating = res.ExternalRating
	case res.UserRating > 0:
		res.CombinedRating = res.UserRating
	}
	res.CombinedRating = clampRating(res.CombinedRating)
	return res
}

// PopularityScore 评价数按两倍权重计入
func PopularityScore(r *dto.RatingDTO) float64 {
	if r.ReviewCount > 0 {
		return float64(r.ReviewCount)*2 + r.CombinedRating
	}
	return r.CombinedRating
}

func (s *ratingServiceImpl) CalculateRating(ctx context.Context, itemID uint64) (*dto.RatingDTO, error) {
	item, err := s.itemRepo.GetItemById(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	reviewStats, err := s.reviewRepo.GetReviewStats(ctx, itemID)
	if err != nil {
		return nil, err
	}
	ratingStats, err := s.ratingRepo.GetRatingStats(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return ComputeRating(item.ExternalRating, reviewStats, ratingStats), nil
}

// CalculateRatings 两次分组聚合得到一批条目的评分
func (s *ratingServiceImpl) CalculateRatings(ctx context.Context, items []*model.Item) (map[uint64]*dto.RatingDTO, error) {
	res := make(map[uint64]*dto.RatingDTO, len(items))
	if len(items) == 0 {
		return res, nil
	}
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return s.calculate(ctx, items, ids)
}

func (s *ratingServiceImpl) calculate(ctx context.Context, items []*model.Item, ids []uint64) (map[uint64]*dto.RatingDTO, error) {
	reviewStats, err := s.reviewRepo.GetReviewStatsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratingStats, err := s.ratingRepo.GetRatingStatsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make(map[uint64]*dto.RatingDTO, len(items))
	for _, it := range items {
		res[it.ID] = ComputeRating(it.ExternalRating, reviewStats[it.ID], ratingStats[it.ID])
	}
	return res, nil
}

// RankItems 精选榜单，全量条目参与排序
func (s *ratingServiceImpl) RankItems(ctx context.Context, itemType, order string, limit int) ([]*RankedItem, error) {
	all, err := s.itemRepo.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*model.Item, 0, len(all))
	for _, it := range all {
		if itemType == "" || it.ItemType == itemType {
			items = append(items, it)
		}
	}

	ratings, err := s.calculate(ctx, items, nil)
	if err != nil {
		return nil, err
	}

	ranked := make([]*RankedItem, 0, len(items))
	for _, it := range items {
		ranked = append(ranked, &RankedItem{Item: it, Rating: ratings[it.ID]})
	}

	switch order {
	case RankPopular:
		sort.SliceStable(ranked, func(i, j int) bool {
			si, sj := PopularityScore(ranked[i].Rating), PopularityScore(ranked[j].Rating)
			if si != sj {
				return si > sj
			}
			return ranked[i].Rating.ReviewCount > ranked[j].Rating.ReviewCount
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Rating.CombinedRating > ranked[j].Rating.CombinedRating
		})
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *ratingServiceImpl) RateItem(ctx context.Context, userID, itemID uint64, score int) (*dto.RateResultDTO, error) {
	if score < 1 || score > 10 {
		return nil, ErrRatingInvalid
	}
	item, err := s.itemRepo.GetItemById(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return s.upsert(ctx, userID, item, score)
}

// RateBySourceID 按外部来源 ID 定位目录内条目后打分
func (s *ratingServiceImpl) RateBySourceID(ctx context.Context, userID uint64, sourceID string, score int) (*dto.RateResultDTO, error) {
	if score < 1 || score > 10 {
		return nil, ErrRatingInvalid
	}
	if sourceID == "" {
		return nil, ErrParamInvalid
	}
	item, err := s.itemRepo.GetItemByExternalId(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return s.upsert(ctx, userID, item, score)
}

// upsert 已评分则原地改分；首次评分分配回收主键并写入 rating 动态
func (s *ratingServiceImpl) upsert(ctx context.Context, userID uint64, item *model.Item, score int) (*dto.RateResultDTO, error) {
	res := &dto.RateResultDTO{ItemID: item.ID, Score: score}

	err := s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		ratingRepo := s.ratingRepo.WithTx(tx)
		existing, err := ratingRepo.GetRatingForUpdate(ctx, userID, item.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			res.RatingID = existing.ID
			if existing.Score == score {
				return nil
			}
			return ratingRepo.UpdateScore(ctx, existing.ID, score)
		}

		id, err := s.slotRepo.WithTx(tx).Allocate(ctx, model.Rating{}.TableName())
		if err != nil {
			return err
		}
		now := time.Now()
		rating := &model.Rating{
			ID:        id,
			UserID:    userID,
			ItemID:    item.ID,
			Score:     score,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = ratingRepo.CreateRating(ctx, rating); err != nil {
			if isDuplicateError(err) {
				return ErrActionDuplicate
			}
			return err
		}
		res.RatingID = id
		res.Created = true

		itemID := item.ID
		return s.activityRepo.WithTx(tx).CreateActivity(ctx, &model.Activity{
			ActivityType: model.ActivityRating,
			UserID:       userID,
			ItemID:       &itemID,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	res.Rating, err = s.CalculateRating(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteRating 删除评分、释放主键并移除对应动态
func (s *ratingServiceImpl) DeleteRating(ctx context.Context, userID, itemID uint64) error {
	return s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		ratingRepo := s.ratingRepo.WithTx(tx)
		existing, err := ratingRepo.GetRatingForUpdate(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrRatingNotFound
		}
		if err = ratingRepo.DeleteRating(ctx, existing.ID); err != nil {
			return err
		}
		if err = s.slotRepo.WithTx(tx).Release(ctx, model.Rating{}.TableName(), existing.ID); err != nil {
			return err
		}
		return s.activityRepo.WithTx(tx).DeleteRating(ctx, userID, itemID)
	})
}
