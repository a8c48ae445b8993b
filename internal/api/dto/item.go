package dto

// ItemDTO 条目详情，评分字段平铺
type ItemDTO struct {
	ID                uint64 `json:"item_id"`
	Title             string `json:"title"`
	ItemType          string `json:"item_type"`
	Year              *int   `json:"year"`
	Description       string `json:"description"`
	PosterURL         string `json:"poster_url"`
	ExternalAPIID     string `json:"external_api_id"`
	ExternalAPISource string `json:"external_api_source"`
	Genres            string `json:"genres"`
	Authors           string `json:"authors"`
	Director          string `json:"director"`
	Actors            string `json:"actors"`
	PageCount         *int   `json:"page_count"`
	LikeCount         int64  `json:"like_count"`
	IsLikedByUser     bool   `json:"is_liked_by_user"`
	CreatedAt         string `json:"created_at"`
	RatingDTO
}

// ItemQueryDTO 条目列表查询
type ItemQueryDTO struct {
	ItemType string `form:"item_type" validate:"omitempty,item_type"`
	Keyword  string `form:"q" validate:"omitempty,max=100"`
	Skip     int    `form:"skip" validate:"min=0"`
	Limit    int    `form:"limit" validate:"min=0,max=100"`
}

// ItemCreateDTO 手动录入条目
type ItemCreateDTO struct {
	Title             string  `json:"title" binding:"required,max=255"`
	ItemType          string  `json:"item_type" binding:"required,item_type"`
	Year              *int    `json:"year" binding:"omitempty,min=0,max=3000"`
	Description       string  `json:"description" binding:"max=5000"`
	PosterURL         string  `json:"poster_url" binding:"omitempty,url,max=512"`
	ExternalAPIID     string  `json:"external_api_id" binding:"max=64"`
	ExternalAPISource string  `json:"external_api_source" binding:"omitempty,oneof=tmdb google_books openlibrary"`
	ExternalRating    float64 `json:"external_rating" binding:"min=0,max=10"`
	Genres            string  `json:"genres" binding:"max=255"`
	Authors           string  `json:"authors" binding:"max=255"`
	Director          string  `json:"director" binding:"max=255"`
	Actors            string  `json:"actors" binding:"max=512"`
	PageCount         *int    `json:"page_count" binding:"omitempty,min=0"`
}
