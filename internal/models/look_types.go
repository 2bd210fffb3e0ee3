package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Look is a "total look" promotional grouping: a named set of product ids
// with its own image and description. Pure presentation grouping, no business
// rule beyond containment.
type Look struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	Image       string               `json:"image" bson:"image"`
	ProductIDs  []primitive.ObjectID `json:"productIds" bson:"productIds"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
}
