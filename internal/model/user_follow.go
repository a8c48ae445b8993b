package model

import "time"

type UserFollow struct {
	FollowerID  uint64    `gorm:"primaryKey;autoIncrement:false" json:"followerId"`
	FollowingID uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_follow_following" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
