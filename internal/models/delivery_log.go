package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery outcomes recorded for each email send attempt
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// EmailDeliveryLog is the append-only record of one email send attempt,
// stored in MongoDB. There is no retry queue; this log is the only trace a
// failed send leaves behind.
type EmailDeliveryLog struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CommentID      string             `json:"comment_id" bson:"comment_id"`
	RecipientID    uint               `json:"recipient_id" bson:"recipient_id"`
	RecipientEmail string             `json:"recipient_email" bson:"recipient_email"`
	EmailType      string             `json:"email_type" bson:"email_type"`
	Status         string             `json:"status" bson:"status"`
	Error          string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
