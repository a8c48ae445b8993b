package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewActionHandler struct {
	actionSvc service.ReviewActionService
}

func NewReviewActionHandler(actionSvc service.ReviewActionService) *ReviewActionHandler {
	return &ReviewActionHandler{actionSvc: actionSvc}
}

// ToggleReviewLike 点赞/取消点赞评论
func (s *ReviewActionHandler) ToggleReviewLike(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	res, err := s.actionSvc.ToggleReviewLike(c.Request.Context(), userID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewActionHandler) GetReviewLikes(c *gin.Context) {
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	res, err := s.actionSvc.GetReviewLikes(c.Request.Context(), reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewActionHandler) IsReviewLikedByUser(c *gin.Context) {
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	res, err := s.actionSvc.IsReviewLikedBy(c.Request.Context(), reviewID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ToggleItemLike 点赞/取消点赞条目
func (s *ReviewActionHandler) ToggleItemLike(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	res, err := s.actionSvc.ToggleItemLike(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewActionHandler) GetItemLikes(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	res, err := s.actionSvc.GetItemLikes(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewActionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	var req dto.ReviewCommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.actionSvc.CreateComment(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewActionHandler) GetComments(c *gin.Context) {
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	skip, limit, ok := bindPage(c)
	if !ok {
		return
	}
	if limit == 0 {
		limit = 20
	}

	res, err := s.actionSvc.GetComments(c.Request.Context(), reviewID, limit, skip)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewActionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	if err := s.actionSvc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
