package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

type followListFunc func(ctx context.Context, userID uint64, limit, offset int) ([]*dto.FollowUserDTO, error)

func (s *UserFollowHandler) list(c *gin.Context, fetch followListFunc) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	skip, limit, ok := bindPage(c)
	if !ok {
		return
	}
	users, err := fetch(c.Request.Context(), userID, limit, skip)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	s.list(c, s.userFollowSvc.GetUserFollowers)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	s.list(c, s.userFollowSvc.GetUserFollowing)
}

// GetFollowStats 粉丝数与关注数
func (s *UserFollowHandler) GetFollowStats(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	stats, err := s.userFollowSvc.GetFollowStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *UserFollowHandler) GetSomeoneIsFollowing(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	targetID, ok := paramID(c, "target_id")
	if !ok {
		return
	}
	following, err := s.userFollowSvc.GetSomeoneIsFollowing(c.Request.Context(), userID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.IsFollowingDTO{IsFollowing: following})
}

type followActionFunc func(ctx context.Context, followerID, followingID uint64) error

// toggle 路径中的 user_id 是被关注者
func (s *UserFollowHandler) toggle(c *gin.Context, act followActionFunc) {
	targetID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	if err := act(c.Request.Context(), c.GetUint64("user_id"), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	s.toggle(c, s.userFollowSvc.CreateUserFollow)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	s.toggle(c, s.userFollowSvc.DeleteUserFollow)
}
