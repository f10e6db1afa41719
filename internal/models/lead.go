package models

import (
	"time"

	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// LeadComment is one append-only note on a lead. IDs are small ints unique
// within the owning lead, assigned the same way as media reference IDs.
type LeadComment struct {
	ID        int       `bson:"id" json:"id"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NextCommentID returns the ID for the next comment appended to list.
func NextCommentID(list []LeadComment) int {
	max := 0
	for _, c := range list {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// Lead is a tracked customer enquiry, optionally tied to a property.
type Lead struct {
	Base         `bson:",inline"`
	Name         string          `bson:"name" json:"name"`
	Email        string          `bson:"email" json:"email"`
	Phone        string          `bson:"phone,omitempty" json:"phone,omitempty"`
	Transaction  TransactionType `bson:"transaction" json:"transaction"`
	PropertyType PropertyType    `bson:"property_type" json:"property_type"`
	Status       LeadStatus      `bson:"status" json:"status"`
	Comments     []LeadComment   `bson:"comments" json:"comments"`
	PropertyID   *utils.SixID    `bson:"property_id,omitempty" json:"property_id,omitempty"`
	OwnerID      utils.SixID     `bson:"owner_id" json:"owner_id"`
	CreatedAt    time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updated_at"`
}
