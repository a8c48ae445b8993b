package model

import (
	"time"
)

// User 账户由认证服务写入，本服务只读
type User struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	Username  string  `gorm:"type:varchar(50);uniqueIndex:idx_username;not null" json:"username"`
	Email     *string `gorm:"type:varchar(255);uniqueIndex:idx_email" json:"email"`
	Bio       string  `gorm:"type:varchar(500)" json:"bio"`
	AvatarURL string  `gorm:"type:varchar(512)" json:"avatarUrl"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
