package model

import (
	"time"
)

const (
	PrivacyPrivate   int8 = 0
	PrivacyFollowers int8 = 1
	PrivacyPublic    int8 = 2
)

type CustomList struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;index:idx_list_user" json:"userId"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"type:varchar(500)" json:"description"`
	PrivacyLevel int8      `gorm:"not null" json:"privacyLevel"` // 0-仅自己 1-粉丝 2-公开
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (CustomList) TableName() string {
	return "custom_lists"
}

// ListItem 目录内条目用 ItemID，外部检索结果保存来源与快照
type ListItem struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	ListID         uint64    `gorm:"not null;index:idx_list_item_list" json:"listId"`
	ItemID         *uint64   `json:"itemId"`
	ExternalSource string    `gorm:"type:varchar(32)" json:"externalSource"`
	ExternalID     string    `gorm:"type:varchar(64)" json:"externalId"`
	Title          string    `gorm:"type:varchar(255)" json:"title"`
	PosterURL      string    `gorm:"type:varchar(512)" json:"posterUrl"`
	Position       int       `gorm:"not null;default:0" json:"position"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (ListItem) TableName() string {
	return "list_items"
}
