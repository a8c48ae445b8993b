package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemSvc   service.ItemService
	ratingSvc service.RatingService
}

func NewItemHandler(itemSvc service.ItemService, ratingSvc service.RatingService) *ItemHandler {
	return &ItemHandler{
		itemSvc:   itemSvc,
		ratingSvc: ratingSvc,
	}
}

func (s *ItemHandler) ListItems(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.ItemQueryDTO
	if !bindQuery(c, &query) {
		return
	}

	items, err := s.itemSvc.ListItems(c.Request.Context(), userID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

func (s *ItemHandler) GetItem(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	item, err := s.itemSvc.GetItem(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

func (s *ItemHandler) GetItemRating(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	rating, err := s.ratingSvc.CalculateRating(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rating)
}

func (s *ItemHandler) GetTopRated(c *gin.Context) {
	s.featured(c, service.RankTopRated)
}

func (s *ItemHandler) GetPopular(c *gin.Context) {
	s.featured(c, service.RankPopular)
}

func (s *ItemHandler) featured(c *gin.Context, order string) {
	userID := c.GetUint64("user_id")
	itemType := c.Query("item_type")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	items, err := s.itemSvc.GetFeatured(c.Request.Context(), userID, order, itemType, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

func (s *ItemHandler) CreateItem(c *gin.Context) {
	var req dto.ItemCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	item, err := s.itemSvc.CreateItem(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}
