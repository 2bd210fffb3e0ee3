package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscriber is the model for the 'subscribers' collection. The normalized
// email is the natural key; unsubscribing deactivates rather than deletes,
// so re-subscribing reuses the same record.
type Subscriber struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email         string             `json:"email" bson:"email"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	SubscribedAt  time.Time          `json:"subscribedAt" bson:"subscribedAt"`
	LastEmailSent *time.Time         `json:"lastEmailSent,omitempty" bson:"lastEmailSent,omitempty"`
	EmailCount    int                `json:"emailCount" bson:"emailCount"`
}

// NormalizeEmail lowercases and trims an address. Every lookup and write
// goes through this, which is what makes the uniqueness invariant hold.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
