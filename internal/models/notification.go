package models

import "time"

// Notification types produced by comment routing. comment_reply takes
// precedence over the entity-specific types for a given recipient.
const (
	NotificationTypeCommentPhoto     = "comment_photo"
	NotificationTypeCommentAlbum     = "comment_album"
	NotificationTypeCommentEvent     = "comment_event"
	NotificationTypeCommentChallenge = "comment_challenge"
	NotificationTypeCommentReply     = "comment_reply"
)

// Notification represents an in-app notification record (PostgreSQL)
type Notification struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Type           string    `json:"type" gorm:"size:30;index"`
	ActorID        uint      `json:"actor_id" gorm:"index"`
	RecipientID    uint      `json:"recipient_id" gorm:"index"`
	EntityType     string    `json:"entity_type" gorm:"size:20"`
	EntityID       string    `json:"entity_id" gorm:"size:64"`
	Title          string    `json:"title"` // Title of the commented entity
	ThumbnailURL   string    `json:"thumbnail_url"`
	Link           string    `json:"link"`
	ActorName      string    `json:"actor_name"`
	ActorNickname  string    `json:"actor_nickname"`
	ActorAvatarURL string    `json:"actor_avatar_url"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}
