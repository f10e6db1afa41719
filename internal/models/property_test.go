package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

func TestNextMediaID(t *testing.T) {
	assert.Equal(t, 1, NextMediaID(nil))
	assert.Equal(t, 1, NextMediaID([]MediaReference{}))

	list := []MediaReference{{ID: 1}, {ID: 2}, {ID: 3}}
	assert.Equal(t, 4, NextMediaID(list))

	// Deleting entries leaves gaps; the next id is still max+1, never a reuse
	// of a live id.
	gappy := []MediaReference{{ID: 2}, {ID: 7}, {ID: 4}}
	assert.Equal(t, 8, NextMediaID(gappy))
}

func TestNextCommentID(t *testing.T) {
	assert.Equal(t, 1, NextCommentID(nil))
	assert.Equal(t, 3, NextCommentID([]LeadComment{{ID: 1}, {ID: 2}}))
	assert.Equal(t, 10, NextCommentID([]LeadComment{{ID: 9}, {ID: 3}}))
}

func TestPropertyMediaLinks(t *testing.T) {
	p := &Property{
		MainImage: "https://cdn.example.com/main.jpg",
		Images: []MediaReference{
			{ID: 1, Link: "https://cdn.example.com/a.jpg"},
			{ID: 2, Link: ""},
			{ID: 3, Link: "https://cdn.example.com/b.mp4", IsVideo: true},
		},
	}
	links := p.MediaLinks()
	assert.ElementsMatch(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.mp4",
		"https://cdn.example.com/main.jpg",
	}, links)

	empty := &Property{}
	assert.Empty(t, empty.MediaLinks())
}

func TestPropertyMediaListRoundTrip(t *testing.T) {
	propertyID := utils.NewSixID()
	p := Property{
		Base:  Base{ID: utils.NewSixID()},
		Title: "2BHK in HSR Layout",
		Price: "8500000",
		City:  CityBangalore,
		Type:  PropertyTypeFlat,
		Images: []MediaReference{
			{ID: 1, Link: "https://cdn.example.com/a.jpg", PropertyID: propertyID},
			{ID: 2, Link: "https://cdn.example.com/v.mp4", IsVideo: true, PropertyID: propertyID},
		},
		Approved: StatusPending,
	}

	data, err := bson.Marshal(p)
	assert.NoError(t, err)

	var decoded Property
	assert.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, p.ID, decoded.ID)
	assert.Equal(t, p.Images, decoded.Images)
	assert.Equal(t, StatusPending, decoded.Approved)
}
