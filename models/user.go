package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document. Password hashes never leave the service; the
// auth handlers blank the field before encoding responses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username"      json:"username"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"passwordHash"  json:"passwordHash,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
}
