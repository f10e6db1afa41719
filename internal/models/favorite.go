package models

import (
	"time"

	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// Favorite is a user's bookmark on a property. The (user_id, property_id)
// pair is unique, enforced by a compound index (see db.EnsureIndexes).
type Favorite struct {
	Base       `bson:",inline"`
	UserID     utils.SixID `bson:"user_id" json:"user_id"`
	PropertyID utils.SixID `bson:"property_id" json:"property_id"`
	CreatedAt  time.Time   `bson:"created_at" json:"created_at"`
}
