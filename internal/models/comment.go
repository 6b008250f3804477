package models

import (
	"time"

	"gorm.io/gorm"
)

// Entity types a comment can be attached to
const (
	EntityTypePhoto     = "photo"
	EntityTypeAlbum     = "album"
	EntityTypeEvent     = "event"
	EntityTypeChallenge = "challenge"
)

// IsValidEntityType reports whether t is one of the four known entity kinds
func IsValidEntityType(t string) bool {
	switch t {
	case EntityTypePhoto, EntityTypeAlbum, EntityTypeEvent, EntityTypeChallenge:
		return true
	}
	return false
}

// Comment represents a comment on a photo, album, event or challenge.
// A comment with ParentID set is a reply; one level of threading is modeled.
type Comment struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	EntityType string         `json:"entity_type" gorm:"size:20;index:idx_comments_entity"`
	EntityID   string         `json:"entity_id" gorm:"size:64;index:idx_comments_entity"` // Event ids are numeric but stored in canonical string form
	UserID     uint           `json:"user_id" gorm:"index"`                               // ID of the user who made the comment
	Content    string         `json:"content"`
	ParentID   *string        `json:"parent_id,omitempty" gorm:"size:36;index"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	EntityType string  `json:"entity_type" validate:"required,oneof=photo album event challenge"`
	EntityID   string  `json:"entity_id" validate:"required,max=64"`
	Content    string  `json:"content" validate:"required,max=2000"`
	ParentID   *string `json:"parent_id,omitempty" validate:"omitempty,max=36"`
}
