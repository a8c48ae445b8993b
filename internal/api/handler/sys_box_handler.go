package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"

	"github.com/gin-gonic/gin"
)

// SysBoxHandler 通知箱，均需登录
type SysBoxHandler struct {
	sysBoxService service.SysBoxService
}

func NewSysBoxHandler(s service.SysBoxService) *SysBoxHandler {
	return &SysBoxHandler{sysBoxService: s}
}

func (h *SysBoxHandler) GetNotificationList(c *gin.Context) {
	query := dto.SysBoxQueryDTO{Page: 1, PageSize: 10}
	if !bindQuery(c, &query) {
		return
	}
	list, err := h.sysBoxService.GetNotificationList(c.Request.Context(), c.GetUint64("user_id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetUnreadCount 总数与分类型未读数
func (h *SysBoxHandler) GetUnreadCount(c *gin.Context) {
	unread, err := h.sysBoxService.GetUnreadCount(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, unread)
}

func (h *SysBoxHandler) MarkRead(c *gin.Context) {
	var req dto.SysBoxReadDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := h.sysBoxService.MarkRead(c.Request.Context(), c.GetUint64("user_id"), req.MsgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead 请求体可省略，省略时清除全部类型
func (h *SysBoxHandler) MarkAllRead(c *gin.Context) {
	var req dto.SysBoxReadAllDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err)
			return
		}
	}
	n, err := h.sysBoxService.MarkAllRead(c.Request.Context(), c.GetUint64("user_id"), req.Type)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"marked": n})
}
