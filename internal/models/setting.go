package models

import "time"

// Setting is one admin-tunable configuration value stored in the
// `settings` collection and cached in Redis by the settings service.
type Setting struct {
	Key       string      `bson:"_id" json:"key"`
	Value     interface{} `bson:"value" json:"value"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}
