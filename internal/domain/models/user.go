// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that owns files and folders.
//
// Email is the login identity. It is stored exactly as registered
// (case-preserving) and matched exactly on lookup; a unique index on the
// email field backs the duplicate-registration check.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	FullName     string             `bson:"full_name" json:"full_name"`
	PasswordHash string             `bson:"password_hash" json:"-"` // bcrypt hash (never in JSON)
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
}
