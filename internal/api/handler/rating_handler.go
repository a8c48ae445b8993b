package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingSvc service.RatingService
}

func NewRatingHandler(ratingSvc service.RatingService) *RatingHandler {
	return &RatingHandler{ratingSvc: ratingSvc}
}

// RateItem 打分，已打过分则覆盖
func (s *RatingHandler) RateItem(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	var req dto.RateItemDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.ratingSvc.RateItem(c.Request.Context(), userID, itemID, req.Score)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// RateBySource 按外部来源 ID 打分
func (s *RatingHandler) RateBySource(c *gin.Context) {
	userID := c.GetUint64("user_id")
	sourceID := c.Param("source_id")

	var req dto.RateItemDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.ratingSvc.RateBySourceID(c.Request.Context(), userID, sourceID, req.Score)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *RatingHandler) DeleteRating(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	if err := s.ratingSvc.DeleteRating(c.Request.Context(), userID, itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
