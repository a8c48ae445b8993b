package dto

// CustomListCreateDTO 创建片单
type CustomListCreateDTO struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description" binding:"max=500"`
	PrivacyLevel *int8  `json:"privacy_level" binding:"omitempty,min=0,max=2"`
}

// CustomListUpdateDTO 修改片单
type CustomListUpdateDTO struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	PrivacyLevel *int8   `json:"privacy_level" binding:"omitempty,min=0,max=2"`
}

// ListItemAddDTO 片单添加条目，目录内条目给 item_id，外部结果给来源与 ID
type ListItemAddDTO struct {
	ItemID         *uint64 `json:"item_id"`
	ExternalSource string  `json:"external_source" binding:"required_without=ItemID,omitempty,oneof=tmdb google_books openlibrary"`
	ExternalID     string  `json:"external_id" binding:"required_without=ItemID,max=64"`
	Title          string  `json:"title" binding:"max=255"`
	PosterURL      string  `json:"poster_url" binding:"max=512"`
}

// CustomListDTO 片单
type CustomListDTO struct {
	ID           uint64 `json:"list_id"`
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PrivacyLevel int8   `json:"privacy_level"`
	ItemCount    int64  `json:"item_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ListItemDTO 片单条目
type ListItemDTO struct {
	ID             uint64  `json:"list_item_id"`
	ItemID         *uint64 `json:"item_id"`
	ExternalSource string  `json:"external_source"`
	ExternalID     string  `json:"external_id"`
	Title          string  `json:"title"`
	ItemType       string  `json:"item_type"`
	PosterURL      string  `json:"poster_url"`
	Position       int     `json:"position"`
	AddedAt        string  `json:"added_at"`
}

// CustomListDetailDTO 片单详情
type CustomListDetailDTO struct {
	CustomListDTO
	Items []*ListItemDTO `json:"items"`
}
