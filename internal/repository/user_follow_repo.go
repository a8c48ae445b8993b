package repository

import (
	"ReaView/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserFollowRepo interface {
	WithTx(tx *gorm.DB) UserFollowRepo
	GetFollowingIds(ctx context.Context, userID uint64) ([]uint64, error)
	GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.UserFollow, error)
	CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) (bool, error)
	DeleteUserFollow(ctx context.Context, userFollow *model.UserFollow) (bool, error)
}

// 以 following_id 查粉丝，以 follower_id 查关注
const (
	colFollower  = "follower_id"
	colFollowing = "following_id"
)

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

func (s *UserFollowRepoImpl) WithTx(tx *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: tx}
}

func (s *UserFollowRepoImpl) edges(ctx context.Context, col string, userID uint64) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.UserFollow{}).Where(col+" = ?", userID)
}

// GetFollowingIds 动态流每次请求实时读取，不走缓存
func (s *UserFollowRepoImpl) GetFollowingIds(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if err := s.edges(ctx, colFollower, userID).Pluck(colFollowing, &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *UserFollowRepoImpl) page(ctx context.Context, col string, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	var list []*model.UserFollow
	err := s.edges(ctx, col, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (s *UserFollowRepoImpl) GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return s.page(ctx, colFollowing, userID, limit, offset)
}

func (s *UserFollowRepoImpl) GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return s.page(ctx, colFollower, userID, limit, offset)
}

func (s *UserFollowRepoImpl) count(ctx context.Context, col string, userID uint64) (int64, error) {
	var n int64
	err := s.edges(ctx, col, userID).Count(&n).Error
	return n, err
}

func (s *UserFollowRepoImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.count(ctx, colFollowing, userID)
}

func (s *UserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.count(ctx, colFollower, userID)
}

// GetUserFollow 不存在时返回 nil, nil
func (s *UserFollowRepoImpl) GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.UserFollow, error) {
	var f model.UserFollow
	err := s.db.WithContext(ctx).
		Where(&model.UserFollow{FollowerID: userID, FollowingID: followingID}).
		Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateUserFollow 已关注时返回 false
func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(userFollow)
	return res.RowsAffected > 0, res.Error
}

// DeleteUserFollow 未关注时返回 false
func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, userFollow *model.UserFollow) (bool, error) {
	res := s.db.WithContext(ctx).
		Where(colFollower+" = ? AND "+colFollowing+" = ?", userFollow.FollowerID, userFollow.FollowingID).
		Delete(&model.UserFollow{})
	return res.RowsAffected > 0, res.Error
}
