package dto

// LikeToggleDTO 点赞切换结果
type LikeToggleDTO struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// LikedByUserDTO 某用户是否点赞
type LikedByUserDTO struct {
	ReviewID uint64 `json:"review_id"`
	UserID   uint64 `json:"user_id"`
	IsLiked  bool   `json:"is_liked"`
}

// LikeUserDTO 点赞用户
type LikeUserDTO struct {
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	CreatedAt string `json:"created_at"`
}

// LikeListDTO 点赞列表
type LikeListDTO struct {
	Total int            `json:"total"`
	Users []*LikeUserDTO `json:"users"`
}

// ReviewCommentCreateDTO 回复评论
type ReviewCommentCreateDTO struct {
	CommentText string `json:"comment_text" binding:"required,max=1000"`
}

// ReviewCommentDTO 回复返回
type ReviewCommentDTO struct {
	ID          uint64 `json:"comment_id"`
	ReviewID    uint64 `json:"review_id"`
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url"`
	CommentText string `json:"comment_text"`
	CreatedAt   string `json:"created_at"`
}
