package repository

import (
	"ReaView/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepo interface {
	WithTx(tx *gorm.DB) RatingRepo
	GetRating(ctx context.Context, userID, itemID uint64) (*model.Rating, error)
	GetRatingForUpdate(ctx context.Context, userID, itemID uint64) (*model.Rating, error)
	CreateRating(ctx context.Context, rating *model.Rating) error
	UpdateScore(ctx context.Context, id uint64, score int) error
	DeleteRating(ctx context.Context, id uint64) error
	GetRatingStats(ctx context.Context, itemID uint64) (*ScoreStats, error)
	GetRatingStatsByItems(ctx context.Context, itemIDs []uint64) (map[uint64]*ScoreStats, error)
}

type RatingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &RatingRepoImpl{db: db}
}

func (s *RatingRepoImpl) WithTx(tx *gorm.DB) RatingRepo {
	return &RatingRepoImpl{db: tx}
}

func (s *RatingRepoImpl) GetRating(ctx context.Context, userID, itemID uint64) (*model.Rating, error) {
	return s.first(s.db.WithContext(ctx), userID, itemID)
}

func (s *RatingRepoImpl) GetRatingForUpdate(ctx context.Context, userID, itemID uint64) (*model.Rating, error) {
	return s.first(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, itemID)
}

func (s *RatingRepoImpl) first(db *gorm.DB, userID, itemID uint64) (*model.Rating, error) {
	var rating model.Rating
	result := db.Where("user_id = ? AND item_id = ?", userID, itemID).First(&rating)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &rating, nil
}

func (s *RatingRepoImpl) CreateRating(ctx context.Context, rating *model.Rating) error {
	return s.db.WithContext(ctx).Create(rating).Error
}

func (s *RatingRepoImpl) UpdateScore(ctx context.Context, id uint64, score int) error {
	return s.db.WithContext(ctx).
		Model(&model.Rating{}).
		Where("id = ?", id).
		Updates(map[string]any{"score": score, "updated_at": time.Now()}).Error
}

func (s *RatingRepoImpl) DeleteRating(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Rating{}, id).Error
}

func (s *RatingRepoImpl) GetRatingStats(ctx context.Context, itemID uint64) (*ScoreStats, error) {
	stats := &ScoreStats{ItemID: itemID}
	result := s.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS cnt").
		Where("item_id = ?", itemID).
		Scan(stats)
	if result.Error != nil {
		return nil, result.Error
	}
	stats.ItemID = itemID
	return stats, nil
}

func (s *RatingRepoImpl) GetRatingStatsByItems(ctx context.Context, itemIDs []uint64) (map[uint64]*ScoreStats, error) {
	var rows []*ScoreStats
	query := s.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("item_id, AVG(score) AS avg, COUNT(*) AS cnt")
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
