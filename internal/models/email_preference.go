package models

import "time"

// EmailCategoryNotifications is the preference category gating comment
// notification emails.
const EmailCategoryNotifications = "notifications"

// EmailCategory is a kind of email a user can opt out of
type EmailCategory struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	Key string `json:"key" gorm:"uniqueIndex;size:40"`
}

// EmailPreference records a user's opt-out for one email category.
// The absence of a row means the user is opted in (default-allow).
type EmailPreference struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_pref_user_category"`
	CategoryID uint      `json:"category_id" gorm:"uniqueIndex:idx_pref_user_category"`
	OptedOut   bool      `json:"opted_out"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdatePreferenceRequest defines the request body for toggling a preference
type UpdatePreferenceRequest struct {
	EmailType string `json:"email_type" validate:"required,max=40"`
	OptedOut  bool   `json:"opted_out"`
}
