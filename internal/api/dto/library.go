package dto

// LibraryActionDTO 书影库添加/移除
type LibraryActionDTO struct {
	Status string `json:"status" binding:"required,oneof=read toread watched towatch"`
	Action string `json:"action" binding:"omitempty,oneof=add remove"`
}

// LibraryResultDTO 书影库操作结果
type LibraryResultDTO struct {
	LibraryID      uint64 `json:"library_id,omitempty"`
	ItemID         uint64 `json:"item_id"`
	Status         string `json:"status"`
	Action         string `json:"action"`
	AlreadyPresent bool   `json:"already_present"`
	Updated        bool   `json:"updated"`
	DeletedCount   int64  `json:"deleted_count"`
}

// LibraryEntryDTO 书影库条目
type LibraryEntryDTO struct {
	LibraryID uint64 `json:"library_id"`
	ItemID    uint64 `json:"item_id"`
	Status    string `json:"status"`
	Title     string `json:"title"`
	ItemType  string `json:"item_type"`
	PosterURL string `json:"poster_url"`
	AddedAt   string `json:"added_at"`
}

// LibraryDTO 用户书影库
type LibraryDTO struct {
	UserID       uint64             `json:"user_id"`
	StatusFilter string             `json:"status_filter"`
	Items        []*LibraryEntryDTO `json:"items"`
	Total        int                `json:"total"`
}

// ItemLibraryStatusDTO 当前用户对某条目的状态
type ItemLibraryStatusDTO struct {
	ItemID    uint64 `json:"item_id"`
	InLibrary bool   `json:"in_library"`
	Status    string `json:"status"`
}
