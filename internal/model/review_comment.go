package model

import (
	"time"
)

type ReviewComment struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ReviewID    uint64    `gorm:"not null;index:idx_comment_review" json:"reviewId"`
	UserID      uint64    `gorm:"not null" json:"userId"`
	CommentText string    `gorm:"type:varchar(1000);not null" json:"commentText"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (ReviewComment) TableName() string {
	return "review_comments"
}
