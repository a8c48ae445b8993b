package handler

import (
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc}
}

// GetFeed 关注用户的动态
func (s *FeedHandler) GetFeed(c *gin.Context) {
	userID := c.GetUint64("user_id")
	skip, limit, ok := bindPage(c)
	if !ok {
		return
	}

	entries, err := s.feedSvc.GetFeed(c.Request.Context(), userID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

// GetUserActivities 用户主页动态，未登录也可访问
func (s *FeedHandler) GetUserActivities(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	skip, limit, ok := bindPage(c)
	if !ok {
		return
	}

	entries, err := s.feedSvc.GetUserActivities(c.Request.Context(), viewerID, userID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}
