package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NoticeReviewLike    int8 = 1 // 评论被点赞
	NoticeReviewComment int8 = 2 // 评论被回复
	NoticeFollow        int8 = 3 // 被关注
)

// NoticeFilter 通知查询条件，Type 为 0 表示全部类型
type NoticeFilter struct {
	ReceiverID uint64
	Type       int8
	UnreadOnly bool
}

// SysBoxModel 系统通知模型
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 消息接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (系统通知可为0)
	Type       int8               `bson:"type" json:"type"`
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 评论ID 或 用户ID
	ActivityID uint64             `bson:"activity_id" json:"activityId"` // 来源动态，用于去重
	Content    string             `bson:"content" json:"content"`        // 评论片段
	Payload    map[string]any     `bson:"payload" json:"payload"`        // 条目标题快照等
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
