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

type ReviewService interface {
	CreateReview(ctx context.Context, userID uint64, req *dto.ReviewCreateDTO) (*dto.ReviewDTO, error)
	UpdateReview(ctx context.Context, userID, reviewID uint64, req *dto.ReviewUpdateDTO) (*dto.ReviewDTO, error)
	DeleteReview(ctx context.Context, userID, reviewID uint64) error
	GetReview(ctx context.Context, viewerID, reviewID uint64) (*dto.ReviewDTO, error)
	GetReviewsByItem(ctx context.Context, viewerID, itemID uint64, limit, offset int) ([]*dto.ReviewDTO, error)
}

type reviewServiceImpl struct {
	transactor   repository.Transactor
	reviewRepo   repository.ReviewRepo
	actionRepo   repository.ReviewActionRepo
	itemRepo     repository.ItemRepo
	userRepo     repository.UserRepo
	activityRepo repository.ActivityRepo
	slotRepo     repository.IDSlotRepo
}

func NewReviewService(
	transactor repository.Transactor,
	reviewRepo repository.ReviewRepo,
	actionRepo repository.ReviewActionRepo,
	itemRepo repository.ItemRepo,
	userRepo repository.UserRepo,
	activityRepo repository.ActivityRepo,
	slotRepo repository.IDSlotRepo,
) ReviewService {
	return &reviewServiceImpl{
		transactor:   transactor,
		reviewRepo:   reviewRepo,
		actionRepo:   actionRepo,
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		slotRepo:     slotRepo,
	}
}

func validScore(score *int) bool {
	return score == nil || (*score >= 1 && *score <= 10)
}

// CreateReview 评论使用回收主键，与 review 动态同一事务写入
func (s *reviewServiceImpl) CreateReview(ctx context.Context, userID uint64, req *dto.ReviewCreateDTO) (*dto.ReviewDTO, error) {
	if !validScore(req.Rating) {
		return nil, ErrRatingInvalid
	}
	text := util.SanitizeText(req.ReviewText)
	if text == "" {
		return nil, ErrParamInvalid
	}
	item, err := s.itemRepo.GetItemById(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	now := time.Now()
	review := &model.Review{
		UserID:     userID,
		ItemID:     item.ID,
		ReviewText: text,
		Rating:     req.Rating,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		id, err := s.slotRepo.WithTx(tx).Allocate(ctx, model.Review{}.TableName())
		if err != nil {
			return err
		}
		review.ID = id
		if err = s.reviewRepo.WithTx(tx).CreateReview(ctx, review); err != nil {
			return err
		}
		itemID, reviewID := item.ID, review.ID
		return s.activityRepo.WithTx(tx).CreateActivity(ctx, &model.Activity{
			ActivityType: model.ActivityReview,
			UserID:       userID,
			ItemID:       &itemID,
			ReviewID:     &reviewID,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetReview(ctx, userID, review.ID)
}

func (s *reviewServiceImpl) UpdateReview(ctx context.Context, userID, reviewID uint64, req *dto.ReviewUpdateDTO) (*dto.ReviewDTO, error) {
	if !validScore(req.Rating) {
		return nil, ErrRatingInvalid
	}
	review, err := s.reviewRepo.GetReviewById(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != userID {
		return nil, UnauthorizedError
	}

	if req.ReviewText != nil {
		text := util.SanitizeText(*req.ReviewText)
		if text == "" {
			return nil, ErrParamInvalid
		}
		review.ReviewText = text
	}
	if req.Rating != nil {
		review.Rating = req.Rating
	}
	review.UpdatedAt = time.Now()
	if err = s.reviewRepo.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return s.GetReview(ctx, userID, reviewID)
}

// DeleteReview 级联删除点赞、回复与相关动态，并释放主键
func (s *reviewServiceImpl) DeleteReview(ctx context.Context, userID, reviewID uint64) error {
	return s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		review, err := reviewRepo.GetReviewForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if review == nil {
			return ErrReviewNotFound
		}
		if review.UserID != userID {
			return UnauthorizedError
		}

		actionRepo := s.actionRepo.WithTx(tx)
		if err = s.activityRepo.WithTx(tx).DeleteByReview(ctx, reviewID); err != nil {
			return err
		}
		if err = actionRepo.DeleteReviewLikesByReview(ctx, reviewID); err != nil {
			return err
		}
		if err = actionRepo.DeleteCommentsByReview(ctx, reviewID); err != nil {
			return err
		}
		if err = reviewRepo.DeleteReview(ctx, reviewID); err != nil {
			return err
		}
		return s.slotRepo.WithTx(tx).Release(ctx, model.Review{}.TableName(), reviewID)
	})
}

func (s *reviewServiceImpl) GetReview(ctx context.Context, viewerID, reviewID uint64) (*dto.ReviewDTO, error) {
	review, err := s.reviewRepo.GetReviewById(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	res, err := s.toReviewDTOs(ctx, viewerID, []*model.Review{review})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (s *reviewServiceImpl) GetReviewsByItem(ctx context.Context, viewerID, itemID uint64, limit, offset int) ([]*dto.ReviewDTO, error) {
	item, err := s.itemRepo.GetItemById(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	reviews, err := s.reviewRepo.GetReviewsByItemId(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.toReviewDTOs(ctx, viewerID, reviews)
}

// toReviewDTOs 点赞数、回复数、是否点赞均批量查询
func (s *reviewServiceImpl) toReviewDTOs(ctx context.Context, viewerID uint64, reviews []*model.Review) ([]*dto.ReviewDTO, error) {
	ids := make([]uint64, 0, len(reviews))
	userIDs := make([]uint64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
		userIDs = append(userIDs, r.UserID)
	}

	likeCounts, err := s.actionRepo.GetReviewLikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.actionRepo.GetCommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.actionRepo.GetLikedReviewIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetUserByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	likedSet := idSet(liked)
	um := userMap(users)

	res := make([]*dto.ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		d := &dto.ReviewDTO{
			ID:           r.ID,
			UserID:       r.UserID,
			ItemID:       r.ItemID,
			ReviewText:   r.ReviewText,
			Rating:       r.Rating,
			LikeCount:    likeCounts[r.ID],
			CommentCount: commentCounts[r.ID],
			CreatedAt:    util.FormatTime(r.CreatedAt),
			UpdatedAt:    util.FormatTime(r.UpdatedAt),
		}
		_, d.IsLikedByUser = likedSet[r.ID]
		if u, ok := um[r.UserID]; ok {
			d.Username = u.Username
			d.AvatarURL = u.AvatarURL
		}
		res = append(res, d)
	}
	return res, nil
}
