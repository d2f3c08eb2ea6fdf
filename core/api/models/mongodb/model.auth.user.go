package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User - usuário da API. O hash de senha nunca sai no JSON.
type User struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username" index:"unique"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
