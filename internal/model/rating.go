package model

import (
	"time"
)

type Rating struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_rating_user_item,priority:1" json:"userId"`
	ItemID    uint64    `gorm:"not null;uniqueIndex:uk_rating_user_item,priority:2;index:idx_rating_item" json:"itemId"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Rating) TableName() string {
	return "ratings"
}
