package models

import (
	"time"
)

// KycDocument is a reference to an identity document uploaded to object
// storage for account verification.
type KycDocument struct {
	Key        string    `bson:"key" json:"key"` // S3 object key
	Kind       string    `bson:"kind,omitempty" json:"kind,omitempty"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// User represents an account on the platform.
type User struct {
	Base         `bson:",inline"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string        `bson:"password" json:"-"`
	Role         Role          `bson:"role" json:"role"`
	Status       UserStatus    `bson:"status" json:"status"`
	KycDocuments []KycDocument `bson:"kyc_documents,omitempty" json:"kyc_documents,omitempty"`
	Verified     bool          `bson:"verified" json:"verified"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the account has admin capability.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
