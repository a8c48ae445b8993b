package model

import (
	"time"
)

type ReviewLike struct {
	ReviewID  uint64    `gorm:"primaryKey;autoIncrement:false" json:"reviewId"`
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_review_like_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ReviewLike) TableName() string {
	return "review_likes"
}

type ItemLike struct {
	ItemID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"itemId"`
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_item_like_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ItemLike) TableName() string {
	return "item_likes"
}
