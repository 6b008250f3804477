package models

import "time"

// Challenge represents a photo challenge. Like events, challenges are
// admin-owned: comment notifications fan out to the admin group.
type Challenge struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:80"`
	Title     string    `json:"title"`
	CoverURL  string    `json:"cover_url"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
