package model

import (
	"time"
)

const (
	ActivityReview        = "review"
	ActivityRating        = "rating"
	ActivityFollow        = "follow"
	ActivityLikeReview    = "like_review"
	ActivityLikeItem      = "like_item"
	ActivityCommentReview = "comment_review"
	ActivityListAdd       = "list_add"
)

// FeedActivityTypes 关注流展示的类型，follow 与 list_add 只出现在个人主页
var FeedActivityTypes = []string{
	ActivityReview,
	ActivityRating,
	ActivityLikeReview,
	ActivityLikeItem,
	ActivityCommentReview,
}

var AllActivityTypes = []string{
	ActivityReview,
	ActivityRating,
	ActivityFollow,
	ActivityLikeReview,
	ActivityLikeItem,
	ActivityCommentReview,
	ActivityListAdd,
}

// Activity 只追加，随被引用的记录一起删除
type Activity struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	ActivityType  string    `gorm:"type:varchar(32);not null;index:idx_activity_type" json:"activityType"`
	UserID        uint64    `gorm:"not null;index:idx_activity_user_created,priority:1" json:"userId"`
	ItemID        *uint64   `gorm:"index:idx_activity_item" json:"itemId"`
	ReviewID      *uint64   `gorm:"index:idx_activity_review" json:"reviewId"`
	CommentID     *uint64   `gorm:"index:idx_activity_comment" json:"commentId"`
	ListID        *uint64   `gorm:"index:idx_activity_list" json:"listId"`
	RelatedUserID *uint64   `json:"relatedUserId"`
	CreatedAt     time.Time `gorm:"index:idx_activity_user_created,priority:2" json:"createdAt"`
}

func (Activity) TableName() string {
	return "activities"
}
