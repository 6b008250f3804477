package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Nickname    string `json:"nickname"`                 // Public handle used in profile URLs; may be empty
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	AvatarURL   string `json:"avatar_url"`
	Password    string `json:"-"` // Store hashed password, ignore for JSON serialization
	IsAdmin     bool   `json:"is_admin" gorm:"default:false;index"`
	IsSuspended bool   `json:"is_suspended" gorm:"default:false"`
	FirebaseUID string `json:"firebase_uid,omitempty"` // Link to Firebase User UID
	FCMToken    string `json:"-"`                      // Device token for push nudges
}

// UserCompact is the minimal public projection of a user embedded in responses
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact converts a User to its public projection
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
	}
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Nickname string `json:"nickname" validate:"omitempty,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Nickname  string `json:"nickname,omitempty" validate:"omitempty,min=2,max=30"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
