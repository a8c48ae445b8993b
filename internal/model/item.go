package model

import (
	"time"
)

const (
	ItemTypeBook  = "book"
	ItemTypeMovie = "movie"
)

const (
	SourceTMDB        = "tmdb"
	SourceGoogleBooks = "google_books"
	SourceOpenLibrary = "openlibrary"
)

type Item struct {
	ID                uint64    `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"type:varchar(255);not null;index:idx_item_title" json:"title"`
	ItemType          string    `gorm:"type:varchar(16);not null;index:idx_item_type" json:"itemType"`
	Year              *int      `json:"year"`
	Description       string    `gorm:"type:text" json:"description"`
	PosterURL         string    `gorm:"type:varchar(512);not null;default:''" json:"posterUrl"` // 空串表示缺失
	ExternalAPIID     string    `gorm:"column:external_api_id;type:varchar(64);index:idx_item_external" json:"externalApiId"`
	ExternalAPISource string    `gorm:"column:external_api_source;type:varchar(32)" json:"externalApiSource"`
	ExternalRating    float64   `gorm:"not null;default:0" json:"externalRating"`
	Genres            string    `gorm:"type:varchar(255)" json:"genres"`
	Authors           string    `gorm:"type:varchar(255)" json:"authors"`
	Director          string    `gorm:"type:varchar(255)" json:"director"`
	Actors            string    `gorm:"type:varchar(512)" json:"actors"`
	PageCount         *int      `json:"pageCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (Item) TableName() string {
	return "items"
}
