package dto

// PageQueryDTO skip/limit 分页
type PageQueryDTO struct {
	Skip  int `form:"skip" validate:"min=0"`
	Limit int `form:"limit" validate:"min=0,max=100"`
}

// FeedEntryDTO 动态条目，按 activity_type 区分，未涉及的字段省略
type FeedEntryDTO struct {
	ActivityID   uint64 `json:"activity_id"`
	ActivityType string `json:"activity_type"`
	CreatedAt    string `json:"created_at"`
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	AvatarURL    string `json:"avatar_url"`

	ItemID      uint64 `json:"item_id,omitempty"`
	Title       string `json:"title,omitempty"`
	ItemType    string `json:"item_type,omitempty"`
	PosterURL   string `json:"poster_url"`
	Year        *int   `json:"year,omitempty"`
	Description string `json:"description,omitempty"`

	ReviewID             uint64 `json:"review_id,omitempty"`
	ReviewText           string `json:"review_text,omitempty"`
	ReviewRating         *int   `json:"review_rating,omitempty"`
	ReviewAuthorID       uint64 `json:"review_author_id,omitempty"`
	ReviewAuthorUsername string `json:"review_author_username,omitempty"`

	CommentID   uint64 `json:"comment_id,omitempty"`
	CommentText string `json:"comment_text,omitempty"`
	RatingScore *int   `json:"rating_score,omitempty"`

	ListID   uint64 `json:"list_id,omitempty"`
	ListName string `json:"list_name,omitempty"`

	RelatedUserID   uint64 `json:"related_user_id,omitempty"`
	RelatedUsername string `json:"related_username,omitempty"`

	LikeCount         int64 `json:"like_count"`
	CommentCount      int64 `json:"comment_count"`
	IsLikedByUser     bool  `json:"is_liked_by_user"`
	IsItemLikedByUser bool  `json:"is_item_liked_by_user"`
}
