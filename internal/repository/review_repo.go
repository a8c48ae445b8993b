package repository

import (
	"ReaView/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreStats 某条目一类评分信号的均值与样本数
type ScoreStats struct {
	ItemID uint64
	Avg    float64
	Cnt    int64
}

type ReviewRepo interface {
	WithTx(tx *gorm.DB) ReviewRepo
	CreateReview(ctx context.Context, review *model.Review) error
	UpdateReview(ctx context.Context, review *model.Review) error
	DeleteReview(ctx context.Context, id uint64) error
	GetReviewById(ctx context.Context, id uint64) (*model.Review, error)
	GetReviewForUpdate(ctx context.Context, id uint64) (*model.Review, error)
	GetReviewsByItemId(ctx context.Context, itemID uint64, limit, offset int) ([]*model.Review, error)
	GetReviewsByUserId(ctx context.Context, userID uint64, limit, offset int) ([]*model.Review, error)
	GetReviewStats(ctx context.Context, itemID uint64) (*ScoreStats, error)
	GetReviewStatsByItems(ctx context.Context, itemIDs []uint64) (map[uint64]*ScoreStats, error)
}

type ReviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) ReviewRepo {
	return &ReviewRepoImpl{db: db}
}

func (s *ReviewRepoImpl) WithTx(tx *gorm.DB) ReviewRepo {
	return &ReviewRepoImpl{db: tx}
}

func (s *ReviewRepoImpl) CreateReview(ctx context.Context, review *model.Review) error {
	return s.db.WithContext(ctx).Create(review).Error
}

func (s *ReviewRepoImpl) UpdateReview(ctx context.Context, review *model.Review) error {
	return s.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"review_text": review.ReviewText,
			"rating":      review.Rating,
			"updated_at":  review.UpdatedAt,
		}).Error
}

func (s *ReviewRepoImpl) DeleteReview(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}

func (s *ReviewRepoImpl) GetReviewById(ctx context.Context, id uint64) (*model.Review, error) {
	return s.first(s.db.WithContext(ctx), id)
}

// GetReviewForUpdate 事务内加行锁读取
func (s *ReviewRepoImpl) GetReviewForUpdate(ctx context.Context, id uint64) (*model.Review, error) {
	return s.first(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *ReviewRepoImpl) first(db *gorm.DB, id uint64) (*model.Review, error) {
	var review model.Review
	result := db.First(&review, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &review, nil
}

func (s *ReviewRepoImpl) GetReviewsByItemId(ctx context.Context, itemID uint64, limit, offset int) ([]*model.Review, error) {
	reviews := make([]*model.Review, 0, limit)
	result := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}

func (s *ReviewRepoImpl) GetReviewsByUserId(ctx context.Context, userID uint64, limit, offset int) ([]*model.Review, error) {
	reviews := make([]*model.Review, 0, limit)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}

// GetReviewStats 只统计带评分的评论
func (s *ReviewRepoImpl) GetReviewStats(ctx context.Context, itemID uint64) (*ScoreStats, error) {
	stats := &ScoreStats{ItemID: itemID}
	result := s.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(rating) AS cnt").
		Where("item_id = ? AND rating IS NOT NULL", itemID).
		Scan(stats)
	if result.Error != nil {
		return nil, result.Error
	}
	stats.ItemID = itemID
	return stats, nil
}

// GetReviewStatsByItems itemIDs 为空时统计全部条目
func (s *ReviewRepoImpl) GetReviewStatsByItems(ctx context.Context, itemIDs []uint64) (map[uint64]*ScoreStats, error) {
	var rows []*ScoreStats
	query := s.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("item_id, AVG(rating) AS avg, COUNT(rating) AS cnt").
		Where("rating IS NOT NULL")
	if len(itemIDs) > 0 {
		query = query.Where("item_id IN ?", itemIDs)
	}
	if err := query.Group("item_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	res := make(map[uint64]*ScoreStats, len(rows))
	for _, r := range rows {
		res[r.ItemID] = r
	}
	return res, nil
}
