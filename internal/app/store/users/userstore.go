// internal/app/store/users/userstore.go
// Package userstore provides storage for user accounts.
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"filevault/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateEmail is returned when attempting to register an email that
// already has an account.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

// Store provides access to the users collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new user store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// CreateInput contains the input for creating a user.
type CreateInput struct {
	Email        string
	FullName     string
	PasswordHash string
}

// Create inserts a new user. Email is stored case-preserving and matched
// exactly; the unique index on email turns a concurrent duplicate insert
// into ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        strings.TrimSpace(input.Email),
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: input.PasswordHash,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	if _, err := s.c.InsertOne(ctx, user); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by exact email match. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether an account with this exact email exists.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
