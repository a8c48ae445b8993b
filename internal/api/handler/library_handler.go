package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"

	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	librarySvc service.LibraryService
}

func NewLibraryHandler(librarySvc service.LibraryService) *LibraryHandler {
	return &LibraryHandler{librarySvc: librarySvc}
}

// GetItemStatus 当前用户对条目的书影库状态
func (s *LibraryHandler) GetItemStatus(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	res, err := s.librarySvc.GetItemStatus(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateLibrary action 缺省为 add
func (s *LibraryHandler) UpdateLibrary(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	var req dto.LibraryActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	var res *dto.LibraryResultDTO
	var err error
	if req.Action == service.LibraryActionRemove {
		res, err = s.librarySvc.Remove(c.Request.Context(), userID, itemID, req.Status)
	} else {
		res, err = s.librarySvc.Add(c.Request.Context(), userID, itemID, req.Status)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *LibraryHandler) GetLibrary(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	res, err := s.librarySvc.GetLibrary(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
