package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSixIDStringRoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := NewSixID()
		s := id.String()
		assert.Len(t, s, 10)

		parsed, err := ParseSixID(s)
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestParseSixIDTolerance(t *testing.T) {
	id := NewSixID()
	s := id.String()

	// Lowercase and separators are accepted.
	lower, err := ParseSixID(s[:5] + "-" + s[5:])
	require.NoError(t, err)
	assert.Equal(t, id, lower)

	// Empty string is the zero ID.
	zero, err := ParseSixID("")
	require.NoError(t, err)
	assert.Equal(t, SixID{}, zero)

	_, err = ParseSixID("short")
	assert.Error(t, err)

	_, err = ParseSixID("!!!!!!!!!!")
	assert.Error(t, err)
}

func TestSixIDJSON(t *testing.T) {
	id := NewSixID()
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	var decoded SixID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestSixIDBSONRoundTrip(t *testing.T) {
	type doc struct {
		ID    SixID  `bson:"_id"`
		Other string `bson:"other"`
	}

	id := NewSixID()
	data, err := bson.Marshal(doc{ID: id, Other: "x"})
	require.NoError(t, err)

	var decoded doc
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.ID)
}

func TestNewSixIDHook(t *testing.T) {
	fixed := SixID{1, 2, 3, 4, 5, 6}
	NewSixIDHook = func() (SixID, bool) { return fixed, true }
	defer func() { NewSixIDHook = nil }()

	assert.Equal(t, fixed, NewSixID())
}
