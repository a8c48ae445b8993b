package model

import (
	"time"
)

// Review 主键由回收分配器给出，不使用自增
type Review struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID     uint64    `gorm:"not null;index:idx_review_user" json:"userId"`
	ItemID     uint64    `gorm:"not null;index:idx_review_item" json:"itemId"`
	ReviewText string    `gorm:"type:text" json:"reviewText"`
	Rating     *int      `json:"rating"` // 1-10，可空
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}
