package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomListHandler struct {
	listSvc service.CustomListService
}

func NewCustomListHandler(listSvc service.CustomListService) *CustomListHandler {
	return &CustomListHandler{listSvc: listSvc}
}

func (s *CustomListHandler) CreateList(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CustomListCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.listSvc.CreateList(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CustomListHandler) UpdateList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	listID, ok := paramID(c, "list_id")
	if !ok {
		return
	}

	var req dto.CustomListUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.listSvc.UpdateList(c.Request.Context(), userID, listID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CustomListHandler) DeleteList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	listID, ok := paramID(c, "list_id")
	if !ok {
		return
	}

	if err := s.listSvc.DeleteList(c.Request.Context(), userID, listID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetList 片单详情，按可见性校验
func (s *CustomListHandler) GetList(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	listID, ok := paramID(c, "list_id")
	if !ok {
		return
	}

	res, err := s.listSvc.GetList(c.Request.Context(), viewerID, listID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CustomListHandler) GetListItems(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	listID, ok := paramID(c, "list_id")
	if !ok {
		return
	}

	res, err := s.listSvc.GetListItems(c.Request.Context(), viewerID, listID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CustomListHandler) GetUserLists(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	ownerID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	res, err := s.listSvc.GetUserLists(c.Request.Context(), viewerID, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CustomListHandler) AddItem(c *gin.Context) {
	userID := c.GetUint64("user_id")
	listID, ok := paramID(c, "list_id")
	if !ok {
		return
	}

	var req dto.ListItemAddDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.listSvc.AddItem(c.Request.Context(), userID, listID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CustomListHandler) RemoveItem(c *gin.Context) {
	userID := c.GetUint64("user_id")
	listID, ok := paramID(c, "list_id")
	if !ok {
		return
	}
	listItemID, ok := paramID(c, "list_item_id")
	if !ok {
		return
	}

	if err := s.listSvc.RemoveItem(c.Request.Context(), userID, listID, listItemID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
