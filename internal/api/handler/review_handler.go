package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewSvc service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

func (s *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ReviewCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	review, err := s.reviewSvc.CreateReview(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, review)
}

func (s *ReviewHandler) UpdateReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	var req dto.ReviewUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	review, err := s.reviewSvc.UpdateReview(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, review)
}

func (s *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	if err := s.reviewSvc.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ReviewHandler) GetReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	review, err := s.reviewSvc.GetReview(c.Request.Context(), userID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, review)
}

func (s *ReviewHandler) GetItemReviews(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID, ok := paramID(c, "item_id")
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

	reviews, err := s.reviewSvc.GetReviewsByItem(c.Request.Context(), userID, itemID, limit, skip)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reviews)
}
