package api

import "ReaView/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	FeedHandler         *handler.FeedHandler
	ItemHandler         *handler.ItemHandler
	RatingHandler       *handler.RatingHandler
	ReviewHandler       *handler.ReviewHandler
	ReviewActionHandler *handler.ReviewActionHandler
	LibraryHandler      *handler.LibraryHandler
	CustomListHandler   *handler.CustomListHandler
	UserFollowHandler   *handler.UserFollowHandler
	SysBoxHandler       *handler.SysBoxHandler
}
