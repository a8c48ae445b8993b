package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/pkg/util"
	"ReaView/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const MaxFollowingCount = 1000

const followCountExpiration = time.Hour * 1

const (
	defaultFollowLimit = 20
	maxFollowLimit     = 100
)

type UserFollowService interface {
	GetUserFollowers(ctx context.Context, userId uint64, limit, offset int) ([]*dto.FollowUserDTO, error)
	GetUserFollowing(ctx context.Context, userId uint64, limit, offset int) ([]*dto.FollowUserDTO, error)
	GetFollowStats(ctx context.Context, userId uint64) (*dto.FollowStatsDTO, error)
	GetSomeoneIsFollowing(ctx context.Context, userId, followingId uint64) (bool, error)
	CreateUserFollow(ctx context.Context, followerId, followingId uint64) error
	DeleteUserFollow(ctx context.Context, followerId, followingId uint64) error
}

type UserFollowServiceImpl struct {
	transactor     repository.Transactor
	userFollowRepo repository.UserFollowRepo
	userRepo       repository.UserRepo
	activityRepo   repository.ActivityRepo
}

func NewUserFollowService(
	transactor repository.Transactor,
	userFollowRepo repository.UserFollowRepo,
	userRepo repository.UserRepo,
	activityRepo repository.ActivityRepo,
) UserFollowService {
	return &UserFollowServiceImpl{
		transactor:     transactor,
		userFollowRepo: userFollowRepo,
		userRepo:       userRepo,
		activityRepo:   activityRepo,
	}
}

type fetchCountFunc func(ctx context.Context, userId uint64) (int64, error)

func (s *UserFollowServiceImpl) GetUserFollowers(ctx context.Context, userId uint64, limit, offset int) ([]*dto.FollowUserDTO, error) {
	offset, limit = util.NormalizePage(offset, limit, defaultFollowLimit, maxFollowLimit)
	follows, err := s.userFollowRepo.GetUserFollowers(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.toFollowUsers(ctx, follows, true)
}

func (s *UserFollowServiceImpl) GetUserFollowing(ctx context.Context, userId uint64, limit, offset int) ([]*dto.FollowUserDTO, error) {
	offset, limit = util.NormalizePage(offset, limit, defaultFollowLimit, maxFollowLimit)
	follows, err := s.userFollowRepo.GetUserFollowing(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.toFollowUsers(ctx, follows, false)
}

func (s *UserFollowServiceImpl) GetFollowStats(ctx context.Context, userId uint64) (*dto.FollowStatsDTO, error) {
	followers, err := s.getCountCommon(ctx, userId, consts.UserFollowerCountKey, s.userFollowRepo.GetUserFollowerCount)
	if err != nil {
		return nil, err
	}
	following, err := s.getCountCommon(ctx, userId, consts.UserFollowingCountKey, s.userFollowRepo.GetUserFollowingCount)
	if err != nil {
		return nil, err
	}
	return &dto.FollowStatsDTO{
		UserID:         userId,
		FollowerCount:  followers,
		FollowingCount: following,
	}, nil
}

func (s *UserFollowServiceImpl) GetSomeoneIsFollowing(ctx context.Context, userId, followingId uint64) (bool, error) {
	if userId == 0 {
		return false, nil
	}
	userFollow, err := s.userFollowRepo.GetUserFollow(ctx, userId, followingId)
	if err != nil {
		return false, err
	}
	return userFollow != nil, nil
}

// CreateUserFollow 关注关系与 follow 动态在同一事务内写入
func (s *UserFollowServiceImpl) CreateUserFollow(ctx context.Context, followerId, followingId uint64) error {
	if followerId == followingId {
		return ErrUserFollowSelf
	}

	target, err := s.userRepo.GetUserById(ctx, followingId)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	count, err := s.userFollowRepo.GetUserFollowingCount(ctx, followerId)
	if err != nil {
		return err
	}
	if count >= MaxFollowingCount {
		return ErrUserFollowLimit
	}

	now := time.Now()
	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		created, err := s.userFollowRepo.WithTx(tx).CreateUserFollow(ctx, &model.UserFollow{
			FollowerID:  followerId,
			FollowingID: followingId,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		if !created {
			return ErrUserFollowExist
		}
		related := followingId
		return s.activityRepo.WithTx(tx).CreateActivity(ctx, &model.Activity{
			ActivityType:  model.ActivityFollow,
			UserID:        followerId,
			RelatedUserID: &related,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return err
	}

	s.invalidateCounts(ctx, followerId, followingId)
	return nil
}

func (s *UserFollowServiceImpl) DeleteUserFollow(ctx context.Context, followerId, followingId uint64) error {
	err := s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		deleted, err := s.userFollowRepo.WithTx(tx).DeleteUserFollow(ctx, &model.UserFollow{
			FollowerID:  followerId,
			FollowingID: followingId,
		})
		if err != nil {
			return err
		}
		if !deleted {
			return ErrUserFollowNotFound
		}
		return s.activityRepo.WithTx(tx).DeleteFollow(ctx, followerId, followingId)
	})
	if err != nil {
		return err
	}

	s.invalidateCounts(ctx, followerId, followingId)
	return nil
}

func (s *UserFollowServiceImpl) invalidateCounts(ctx context.Context, followerId, followingId uint64) {
	if !redis.Available() {
		return
	}
	err := redis.DeleteKey(ctx,
		consts.UserFollowingCountKey+strconv.FormatUint(followerId, 10),
		consts.UserFollowerCountKey+strconv.FormatUint(followingId, 10),
	)
	if err != nil {
		log.WarnContext(ctx, "invalidate follow count cache failed", "err", err)
	}
}

func (s *UserFollowServiceImpl) getCountCommon(
	ctx context.Context,
	userId uint64,
	keyPrefix string,
	fetchDB fetchCountFunc,
) (int64, error) {
	if !redis.Available() {
		return fetchDB(ctx, userId)
	}

	key := keyPrefix + strconv.FormatUint(userId, 10)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := fetchDB(ctx, userId)
	if err != nil {
		return 0, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, followCountExpiration)
	return count, nil
}

func (s *UserFollowServiceImpl) toFollowUsers(ctx context.Context, follows []*model.UserFollow, isFollowerList bool) ([]*dto.FollowUserDTO, error) {
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		if isFollowerList {
			ids = append(ids, f.FollowerID)
		} else {
			ids = append(ids, f.FollowingID)
		}
	}
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	um := userMap(users)

	res := make([]*dto.FollowUserDTO, 0, len(follows))
	for i, f := range follows {
		d := &dto.FollowUserDTO{UserID: ids[i], FollowedAt: util.FormatTime(f.CreatedAt)}
		if u, ok := um[ids[i]]; ok {
			d.Username = u.Username
			d.AvatarURL = u.AvatarURL
			d.Bio = u.Bio
		}
		res = append(res, d)
	}
	return res, nil
}
