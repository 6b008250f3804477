package models

import "time"

// Photo represents a gallery photo owned by a single user
type Photo struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	UserID       uint      `json:"user_id" gorm:"index"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PhotoAlbum records the membership of a photo in an album.
// Position orders photos within an album and picks the "first containing
// album" when building photo deep links.
type PhotoAlbum struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PhotoID  string `json:"photo_id" gorm:"size:36;index"`
	AlbumID  string `json:"album_id" gorm:"size:36;index"`
	Position int    `json:"position"`
}
