package dto

// RatingDTO 混合评分
type RatingDTO struct {
	ExternalRating float64 `json:"external_rating"`
	UserRating     float64 `json:"user_rating"`
	CombinedRating float64 `json:"combined_rating"`
	ReviewCount    int64   `json:"review_count"`
	Popularity     int64   `json:"popularity"`
}

// RateItemDTO 打分请求
type RateItemDTO struct {
	Score int `json:"score" binding:"required,min=1,max=10"`
}

// RateResultDTO 打分结果
type RateResultDTO struct {
	RatingID uint64     `json:"rating_id"`
	ItemID   uint64     `json:"item_id"`
	Score    int        `json:"score"`
	Created  bool       `json:"created"`
	Rating   *RatingDTO `json:"rating"`
}
