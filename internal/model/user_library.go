package model

import (
	"time"
)

const (
	LibraryRead    = "read"
	LibraryToRead  = "toread"
	LibraryWatched = "watched"
	LibraryToWatch = "towatch"
)

// UserLibrary 每个 (user_id, item_id) 至多一行，状态变化原地更新
type UserLibrary struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_library_user_item,priority:1" json:"userId"`
	ItemID    uint64    `gorm:"not null;uniqueIndex:uk_library_user_item,priority:2" json:"itemId"`
	Status    string    `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Item Item `gorm:"foreignKey:ItemID;references:ID" json:"item"`
}

func (UserLibrary) TableName() string {
	return "user_library"
}
