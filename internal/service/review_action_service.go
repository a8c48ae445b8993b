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

type ReviewActionService interface {
	ToggleReviewLike(ctx context.Context, userID, reviewID uint64) (*dto.LikeToggleDTO, error)
	GetReviewLikes(ctx context.Context, reviewID uint64) (*dto.LikeListDTO, error)
	IsReviewLikedBy(ctx context.Context, reviewID, userID uint64) (*dto.LikedByUserDTO, error)

	ToggleItemLike(ctx context.Context, userID, itemID uint64) (*dto.LikeToggleDTO, error)
	GetItemLikes(ctx context.Context, itemID uint64) (*dto.LikeListDTO, error)

	CreateComment(ctx context.Context, userID, reviewID uint64, req *dto.ReviewCommentCreateDTO) (*dto.ReviewCommentDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	GetComments(ctx context.Context, reviewID uint64, limit, offset int) ([]*dto.ReviewCommentDTO, error)
}

type reviewActionServiceImpl struct {
	transactor   repository.Transactor
	actionRepo   repository.ReviewActionRepo
	reviewRepo   repository.ReviewRepo
	itemRepo     repository.ItemRepo
	userRepo     repository.UserRepo
	activityRepo repository.ActivityRepo
}

func NewReviewActionService(
	transactor repository.Transactor,
	actionRepo repository.ReviewActionRepo,
	reviewRepo repository.ReviewRepo,
	itemRepo repository.ItemRepo,
	userRepo repository.UserRepo,
	activityRepo repository.ActivityRepo,
) ReviewActionService {
	return &reviewActionServiceImpl{
		transactor:   transactor,
		actionRepo:   actionRepo,
		reviewRepo:   reviewRepo,
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
	}
}

func (s *reviewActionServiceImpl) getReview(ctx context.Context, reviewID uint64) (*model.Review, error) {
	review, err := s.reviewRepo.GetReviewById(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// ToggleReviewLike 已点赞则取消并删除动态，否则点赞并写入 like_review 动态
func (s *reviewActionServiceImpl) ToggleReviewLike(ctx context.Context, userID, reviewID uint64) (*dto.LikeToggleDTO, error) {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	res := &dto.LikeToggleDTO{}
	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		actionRepo := s.actionRepo.WithTx(tx)
		activityRepo := s.activityRepo.WithTx(tx)

		removed, err := actionRepo.DeleteReviewLike(ctx, userID, reviewID)
		if err != nil {
			return err
		}
		if removed {
			return activityRepo.DeleteReviewLike(ctx, userID, reviewID)
		}

		now := time.Now()
		res.Liked = true
		created, err := actionRepo.CreateReviewLike(ctx, &model.ReviewLike{ReviewID: reviewID, UserID: userID, CreatedAt: now})
		if err != nil {
			return err
		}
		// 并发请求已写入点赞，不重复写动态
		if !created {
			return nil
		}
		itemID, rid := review.ItemID, reviewID
		return activityRepo.CreateActivity(ctx, &model.Activity{
			ActivityType: model.ActivityLikeReview,
			UserID:       userID,
			ItemID:       &itemID,
			ReviewID:     &rid,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.actionRepo.GetReviewLikeCounts(ctx, []uint64{reviewID})
	if err != nil {
		return nil, err
	}
	res.LikeCount = counts[reviewID]
	return res, nil
}

func (s *reviewActionServiceImpl) GetReviewLikes(ctx context.Context, reviewID uint64) (*dto.LikeListDTO, error) {
	if _, err := s.getReview(ctx, reviewID); err != nil {
		return nil, err
	}
	likes, err := s.actionRepo.GetReviewLikes(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, 0, len(likes))
	times := make([]time.Time, 0, len(likes))
	for _, l := range likes {
		userIDs = append(userIDs, l.UserID)
		times = append(times, l.CreatedAt)
	}
	return s.toLikeList(ctx, userIDs, times)
}

func (s *reviewActionServiceImpl) IsReviewLikedBy(ctx context.Context, reviewID, userID uint64) (*dto.LikedByUserDTO, error) {
	if _, err := s.getReview(ctx, reviewID); err != nil {
		return nil, err
	}
	liked, err := s.actionRepo.CheckReviewLikeExists(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	return &dto.LikedByUserDTO{ReviewID: reviewID, UserID: userID, IsLiked: liked}, nil
}

func (s *reviewActionServiceImpl) ToggleItemLike(ctx context.Context, userID, itemID uint64) (*dto.LikeToggleDTO, error) {
	item, err := s.itemRepo.GetItemById(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	res := &dto.LikeToggleDTO{}
	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		actionRepo := s.actionRepo.WithTx(tx)
		activityRepo := s.activityRepo.WithTx(tx)

		removed, err := actionRepo.DeleteItemLike(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if removed {
			return activityRepo.DeleteItemLike(ctx, userID, itemID)
		}

		now := time.Now()
		res.Liked = true
		created, err := actionRepo.CreateItemLike(ctx, &model.ItemLike{ItemID: itemID, UserID: userID, CreatedAt: now})
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		iid := itemID
		return activityRepo.CreateActivity(ctx, &model.Activity{
			ActivityType: model.ActivityLikeItem,
			UserID:       userID,
			ItemID:       &iid,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.actionRepo.GetItemLikeCounts(ctx, []uint64{itemID})
	if err != nil {
		return nil, err
	}
	res.LikeCount = counts[itemID]
	return res, nil
}

func (s *reviewActionServiceImpl) GetItemLikes(ctx context.Context, itemID uint64) (*dto.LikeListDTO, error) {
	likes, err := s.actionRepo.GetItemLikes(ctx, itemID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, 0, len(likes))
	times := make([]time.Time, 0, len(likes))
	for _, l := range likes {
		userIDs = append(userIDs, l.UserID)
		times = append(times, l.CreatedAt)
	}
	return s.toLikeList(ctx, userIDs, times)
}

// CreateComment 回复与 comment_review 动态同一事务写入
func (s *reviewActionServiceImpl) CreateComment(ctx context.Context, userID, reviewID uint64, req *dto.ReviewCommentCreateDTO) (*dto.ReviewCommentDTO, error) {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	text := util.SanitizeText(req.CommentText)
	if text == "" {
		return nil, ErrParamInvalid
	}

	comment := &model.ReviewComment{
		ReviewID:    reviewID,
		UserID:      userID,
		CommentText: text,
		CreatedAt:   time.Now(),
	}
	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.actionRepo.WithTx(tx).CreateComment(ctx, comment); err != nil {
			return err
		}
		itemID, rid, cid := review.ItemID, reviewID, comment.ID
		return s.activityRepo.WithTx(tx).CreateActivity(ctx, &model.Activity{
			ActivityType: model.ActivityCommentReview,
			UserID:       userID,
			ItemID:       &itemID,
			ReviewID:     &rid,
			CommentID:    &cid,
			CreatedAt:    comment.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	res, err := s.toCommentDTOs(ctx, []*model.ReviewComment{comment})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// DeleteComment 仅作者本人可删除
func (s *reviewActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return UnauthorizedError
	}
	return s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.activityRepo.WithTx(tx).DeleteByComment(ctx, commentID); err != nil {
			return err
		}
		return s.actionRepo.WithTx(tx).DeleteComment(ctx, commentID)
	})
}

func (s *reviewActionServiceImpl) GetComments(ctx context.Context, reviewID uint64, limit, offset int) ([]*dto.ReviewCommentDTO, error) {
	if _, err := s.getReview(ctx, reviewID); err != nil {
		return nil, err
	}
	comments, err := s.actionRepo.GetCommentsByReviewID(ctx, reviewID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.toCommentDTOs(ctx, comments)
}

func (s *reviewActionServiceImpl) toCommentDTOs(ctx context.Context, comments []*model.ReviewComment) ([]*dto.ReviewCommentDTO, error) {
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.GetUserByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	um := userMap(users)

	res := make([]*dto.ReviewCommentDTO, 0, len(comments))
	for _, c := range comments {
		d := &dto.ReviewCommentDTO{
			ID:          c.ID,
			ReviewID:    c.ReviewID,
			UserID:      c.UserID,
			CommentText: c.CommentText,
			CreatedAt:   util.FormatTime(c.CreatedAt),
		}
		if u, ok := um[c.UserID]; ok {
			d.Username = u.Username
			d.AvatarURL = u.AvatarURL
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *reviewActionServiceImpl) toLikeList(ctx context.Context, userIDs []uint64, times []time.Time) (*dto.LikeListDTO, error) {
	users, err := s.userRepo.GetUserByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	um := userMap(users)

	list := make([]*dto.LikeUserDTO, 0, len(userIDs))
	for i, id := range userIDs {
		d := &dto.LikeUserDTO{UserID: id, CreatedAt: util.FormatTime(times[i])}
		if u, ok := um[id]; ok {
			d.Username = u.Username
			d.AvatarURL = u.AvatarURL
		}
		list = append(list, d)
	}
	return &dto.LikeListDTO{Total: len(list), Users: list}, nil
}
