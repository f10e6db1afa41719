package models

import (
	"time"

	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// MediaReference is one image or video entry in a property's media list.
// IDs are small ints unique within the owning property only; they are
// assigned sequentially and never reused while the list is non-empty.
type MediaReference struct {
	ID         int         `bson:"id" json:"id"`
	Link       string      `bson:"link" json:"link"`
	IsVideo    bool        `bson:"is_video" json:"is_video"`
	PropertyID utils.SixID `bson:"property_id" json:"property_id"`
}

// NextMediaID returns the ID to assign to the next entry appended to list:
// one past the highest existing ID, or 1 for an empty list.
func NextMediaID(list []MediaReference) int {
	max := 0
	for _, m := range list {
		if m.ID > max {
			max = m.ID
		}
	}
	return max + 1
}

// Property represents a real-estate listing.
type Property struct {
	Base         `bson:",inline"`
	Title        string           `bson:"title" json:"title"`
	Subtitle     string           `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Price        string           `bson:"price" json:"price"` // decimal kept as text
	Rooms        int              `bson:"rooms" json:"rooms"` // BHK count
	Location     string           `bson:"location" json:"location"`
	City         City             `bson:"city" json:"city"`
	MainImage    string           `bson:"main_image,omitempty" json:"main_image,omitempty"`
	Images       []MediaReference `bson:"images" json:"images"`
	Type         PropertyType     `bson:"type" json:"type"`
	Area         float64          `bson:"area" json:"area"`
	AreaUnit     string           `bson:"area_unit,omitempty" json:"area_unit,omitempty"`
	Description  string           `bson:"description,omitempty" json:"description,omitempty"`
	ContactPhone string           `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Approved     ApprovalStatus   `bson:"approved" json:"approved"`
	OwnerID      *utils.SixID     `bson:"owner_id,omitempty" json:"owner_id,omitempty"` // nil once the owner account is gone
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `bson:"updated_at" json:"updated_at"`
}

// MediaLinks returns every remote object URL attached to the property:
// the main image (when set) plus each media list entry.
func (p *Property) MediaLinks() []string {
	links := make([]string, 0, len(p.Images)+1)
	for _, m := range p.Images {
		if m.Link != "" {
			links = append(links, m.Link)
		}
	}
	if p.MainImage != "" {
		links = append(links, p.MainImage)
	}
	return links
}
