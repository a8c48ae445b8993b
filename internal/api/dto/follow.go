package dto

// FollowUserDTO 关注/粉丝列表项
type FollowUserDTO struct {
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
	Bio        string `json:"bio"`
	FollowedAt string `json:"followed_at"`
}

// FollowStatsDTO 关注统计
type FollowStatsDTO struct {
	UserID         uint64 `json:"user_id"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
}

// IsFollowingDTO 是否关注
type IsFollowingDTO struct {
	IsFollowing bool `json:"is_following"`
}
