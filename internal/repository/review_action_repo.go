package repository

import (
	"ReaView/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewActionRepo interface {
	WithTx(tx *gorm.DB) ReviewActionRepo

	CreateReviewLike(ctx context.Context, like *model.ReviewLike) (bool, error)
	DeleteReviewLike(ctx context.Context, userID, reviewID uint64) (bool, error)
	DeleteReviewLikesByReview(ctx context.Context, reviewID uint64) error
	CheckReviewLikeExists(ctx context.Context, userID, reviewID uint64) (bool, error)
	GetReviewLikes(ctx context.Context, reviewID uint64) ([]*model.ReviewLike, error)
	GetReviewLikeCounts(ctx context.Context, reviewIDs []uint64) (map[uint64]int64, error)
	GetLikedReviewIDs(ctx context.Context, userID uint64, reviewIDs []uint64) ([]uint64, error)

	CreateItemLike(ctx context.Context, like *model.ItemLike) (bool, error)
	DeleteItemLike(ctx context.Context, userID, itemID uint64) (bool, error)
	CheckItemLikeExists(ctx context.Context, userID, itemID uint64) (bool, error)
	GetItemLikes(ctx context.Context, itemID uint64) ([]*model.ItemLike, error)
	GetItemLikeCounts(ctx context.Context, itemIDs []uint64) (map[uint64]int64, error)
	GetLikedItemIDs(ctx context.Context, userID uint64, itemIDs []uint64) ([]uint64, error)

	CreateComment(ctx context.Context, comment *model.ReviewComment) error
	DeleteComment(ctx context.Context, commentID uint64) error
	DeleteCommentsByReview(ctx context.Context, reviewID uint64) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.ReviewComment, error)
	GetCommentsByReviewID(ctx context.Context, reviewID uint64, limit, offset int) ([]*model.ReviewComment, error)
	GetCommentIDsByReviewID(ctx context.Context, reviewID uint64) ([]uint64, error)
	GetCommentCounts(ctx context.Context, reviewIDs []uint64) (map[uint64]int64, error)
}

type ReviewActionRepoImpl struct {
	db *gorm.DB
}

func NewReviewActionRepo(db *gorm.DB) ReviewActionRepo {
	return &ReviewActionRepoImpl{db}
}

func (s *ReviewActionRepoImpl) WithTx(tx *gorm.DB) ReviewActionRepo {
	return &ReviewActionRepoImpl{tx}
}

type groupCount struct {
	TargetID uint64
	Cnt      int64
}

// countGrouped 按 column 分组计数
func (s *ReviewActionRepoImpl) countGrouped(ctx context.Context, value any, column string, ids []uint64) (map[uint64]int64, error) {
	res := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	var rows []groupCount
	err := s.db.WithContext(ctx).Model(value).
		Select(column+" AS target_id, COUNT(*) AS cnt").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.TargetID] = r.Cnt
	}
	return res, nil
}

func (s *ReviewActionRepoImpl) CreateReviewLike(ctx context.Context, like *model.ReviewLike) (bool, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	return result.RowsAffected > 0, result.Error
}

func (s *ReviewActionRepoImpl) DeleteReviewLike(ctx context.Context, userID, reviewID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Delete(&model.ReviewLike{})
	return result.RowsAffected > 0, result.Error
}

func (s *ReviewActionRepoImpl) DeleteReviewLikesByReview(ctx context.Context, reviewID uint64) error {
	return s.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&model.ReviewLike{}).Error
}

func (s *ReviewActionRepoImpl) CheckReviewLikeExists(ctx context.Context, userID, reviewID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ReviewLike{}).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Count(&count).Error
	return count > 0, err
}

func (s *ReviewActionRepoImpl) GetReviewLikes(ctx context.Context, reviewID uint64) ([]*model.ReviewLike, error) {
	likes := make([]*model.ReviewLike, 0)
	err := s.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}

func (s *ReviewActionRepoImpl) GetReviewLikeCounts(ctx context.Context, reviewIDs []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &model.ReviewLike{}, "review_id", reviewIDs)
}

func (s *ReviewActionRepoImpl) GetLikedReviewIDs(ctx context.Context, userID uint64, reviewIDs []uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if userID == 0 || len(reviewIDs) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).Model(&model.ReviewLike{}).
		Where("user_id = ? AND review_id IN ?", userID, reviewIDs).
		Pluck("review_id", &ids).Error
	return ids, err
}

func (s *ReviewActionRepoImpl) CreateItemLike(ctx context.Context, like *model.ItemLike) (bool, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	return result.RowsAffected > 0, result.Error
}

func (s *ReviewActionRepoImpl) DeleteItemLike(ctx context.Context, userID, itemID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&model.ItemLike{})
	return result.RowsAffected > 0, result.Error
}

func (s *ReviewActionRepoImpl) CheckItemLikeExists(ctx context.Context, userID, itemID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ItemLike{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

func (s *ReviewActionRepoImpl) GetItemLikes(ctx context.Context, itemID uint64) ([]*model.ItemLike, error) {
	likes := make([]*model.ItemLike, 0)
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}

func (s *ReviewActionRepoImpl) GetItemLikeCounts(ctx context.Context, itemIDs []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &model.ItemLike{}, "item_id", itemIDs)
}

func (s *ReviewActionRepoImpl) GetLikedItemIDs(ctx context.Context, userID uint64, itemIDs []uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if userID == 0 || len(itemIDs) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).Model(&model.ItemLike{}).
		Where("user_id = ? AND item_id IN ?", userID, itemIDs).
		Pluck("item_id", &ids).Error
	return ids, err
}

func (s *ReviewActionRepoImpl) CreateComment(ctx context.Context, comment *model.ReviewComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *ReviewActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Delete(&model.ReviewComment{}, commentID).Error
}

func (s *ReviewActionRepoImpl) DeleteCommentsByReview(ctx context.Context, reviewID uint64) error {
	return s.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&model.ReviewComment{}).Error
}

func (s *ReviewActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.ReviewComment, error) {
	var comment model.ReviewComment
	err := s.db.WithContext(ctx).First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (s *ReviewActionRepoImpl) GetCommentsByReviewID(ctx context.Context, reviewID uint64, limit, offset int) ([]*model.ReviewComment, error) {
	comments := make([]*model.ReviewComment, 0, limit)
	err := s.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (s *ReviewActionRepoImpl) GetCommentIDsByReviewID(ctx context.Context, reviewID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := s.db.WithContext(ctx).Model(&model.ReviewComment{}).
		Where("review_id = ?", reviewID).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *ReviewActionRepoImpl) GetCommentCounts(ctx context.Context, reviewIDs []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &model.ReviewComment{}, "review_id", reviewIDs)
}
