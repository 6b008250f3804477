package models

import "time"

// Album represents a photo album. UserID is nil for system-managed albums
// (e.g. event albums), which have no owner to notify.
type Album struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index"`
	Title     string    `json:"title"`
	CoverURL  string    `json:"cover_url"`
	IsSystem  bool      `json:"is_system" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
