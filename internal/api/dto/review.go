package dto

// ReviewCreateDTO 发表评论
type ReviewCreateDTO struct {
	ItemID     uint64 `json:"item_id" binding:"required"`
	ReviewText string `json:"review_text" binding:"required,max=5000"`
	Rating     *int   `json:"rating" binding:"omitempty,min=1,max=10"`
}

// ReviewUpdateDTO 修改评论，字段为空表示不修改
type ReviewUpdateDTO struct {
	ReviewText *string `json:"review_text" binding:"omitempty,min=1,max=5000"`
	Rating     *int    `json:"rating" binding:"omitempty,min=1,max=10"`
}

// ReviewDTO 评论返回
type ReviewDTO struct {
	ID            uint64 `json:"review_id"`
	UserID        uint64 `json:"user_id"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	ItemID        uint64 `json:"item_id"`
	ReviewText    string `json:"review_text"`
	Rating        *int   `json:"rating"`
	LikeCount     int64  `json:"like_count"`
	CommentCount  int64  `json:"comment_count"`
	IsLikedByUser bool   `json:"is_liked_by_user"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}
