package models

import "time"

// User is a directory record for a booking subject, keyed by phone identity.
type User struct {
	ID          string    `bson:"id" json:"id"`
	Phone       string    `bson:"phone" json:"phone"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
