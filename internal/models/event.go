package models

import "time"

// Event represents a community event. Events have no single owner; the admin
// group is notified about their comments. Event ids are numeric, unlike the
// other entities.
type Event struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:80"`
	Title     string    `json:"title"`
	CoverURL  string    `json:"cover_url"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
