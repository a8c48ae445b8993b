package api

import (
	"ReaView/internal/api/middleware"
	"ReaView/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, corsOrigins []string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/api/ping"))
	r.Use(middleware.CORSMiddleware(corsOrigins))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// 登录可选：未登录时 user_id 为 0
		optGroup := apiGroup.Group("")
		optGroup.Use(middleware.AuthOptionalMiddleware())
		{
			optGroup.GET("/items", group.ItemHandler.ListItems)
			optGroup.GET("/items/featured/top-rated", group.ItemHandler.GetTopRated)
			optGroup.GET("/items/featured/popular", group.ItemHandler.GetPopular)
			optGroup.GET("/items/:item_id", group.ItemHandler.GetItem)
			optGroup.GET("/items/:item_id/rating", group.ItemHandler.GetItemRating)
			optGroup.GET("/items/:item_id/reviews", group.ReviewHandler.GetItemReviews)

			optGroup.GET("/reviews/:review_id", group.ReviewHandler.GetReview)
			optGroup.GET("/review/:review_id/likes", group.ReviewActionHandler.GetReviewLikes)
			optGroup.GET("/review/:review_id/liked-by-user/:user_id", group.ReviewActionHandler.IsReviewLikedByUser)
			optGroup.GET("/review/:review_id/comments", group.ReviewActionHandler.GetComments)
			optGroup.GET("/item/:item_id/likes", group.ReviewActionHandler.GetItemLikes)

			optGroup.GET("/library/:user_id", group.LibraryHandler.GetLibrary)

			optGroup.GET("/custom-lists/user/:user_id", group.CustomListHandler.GetUserLists)
			optGroup.GET("/custom-lists/:list_id", group.CustomListHandler.GetList)
			optGroup.GET("/lists/:list_id/items", group.CustomListHandler.GetListItems)

			optGroup.GET("/users/:user_id/activities", group.FeedHandler.GetUserActivities)
			optGroup.GET("/users/:user_id/followers", group.UserFollowHandler.GetUserFollowers)
			optGroup.GET("/users/:user_id/following", group.UserFollowHandler.GetUserFollowings)
			optGroup.GET("/users/:user_id/follow-stats", group.UserFollowHandler.GetFollowStats)
			optGroup.GET("/users/:user_id/is-following/:target_id", group.UserFollowHandler.GetSomeoneIsFollowing)
		}

		authGroup := apiGroup.Group("")
		authGroup.Use(middleware.AuthMiddleware())
		{
			authGroup.GET("/feed", group.FeedHandler.GetFeed)

			authGroup.POST("/items", group.ItemHandler.CreateItem)
			authGroup.POST("/items/:item_id/rate", group.RatingHandler.RateItem)
			authGroup.DELETE("/items/:item_id/rate", group.RatingHandler.DeleteRating)
			authGroup.POST("/rating/:source_id", group.RatingHandler.RateBySource)

			authGroup.POST("/reviews", group.ReviewHandler.CreateReview)
			authGroup.PUT("/reviews/:review_id", group.ReviewHandler.UpdateReview)
			authGroup.DELETE("/reviews/:review_id", group.ReviewHandler.DeleteReview)

			authGroup.POST("/review/:review_id/like", group.ReviewActionHandler.ToggleReviewLike)
			authGroup.POST("/review/:review_id/comments", group.ReviewActionHandler.CreateComment)
			authGroup.DELETE("/review-comments/:comment_id", group.ReviewActionHandler.DeleteComment)
			authGroup.POST("/item/:item_id/like", group.ReviewActionHandler.ToggleItemLike)

			authGroup.GET("/items/:item_id/library", group.LibraryHandler.GetItemStatus)
			authGroup.POST("/items/:item_id/library", group.LibraryHandler.UpdateLibrary)

			authGroup.POST("/custom-lists", group.CustomListHandler.CreateList)
			authGroup.PUT("/custom-lists/:list_id", group.CustomListHandler.UpdateList)
			authGroup.DELETE("/custom-lists/:list_id", group.CustomListHandler.DeleteList)
			authGroup.POST("/custom-lists/:list_id/items", group.CustomListHandler.AddItem)
			authGroup.DELETE("/custom-lists/:list_id/items/:list_item_id", group.CustomListHandler.RemoveItem)

			authGroup.POST("/users/:user_id/follow", group.UserFollowHandler.Follow)
			authGroup.DELETE("/users/:user_id/follow", group.UserFollowHandler.Unfollow)
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(middleware.AuthMiddleware())
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}
	}

	return r
}
