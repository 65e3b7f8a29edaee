// Package file provides owner-scoped storage for file metadata.
package file

import (
	"context"
	"time"

	"filevault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the files collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new file store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("files")}
}

// CreateInput contains the input for creating a file record.
//
// ID is allocated by the caller because it doubles as the blob key in the
// content store: the blob is written under this id before the metadata
// insert, so a visible record never references a missing blob.
type CreateInput struct {
	ID          primitive.ObjectID
	Name        string
	Size        int64
	ContentType string
	FolderID    *string
	OwnerID     primitive.ObjectID
}

// Create inserts a new file record. The folder reference is stored
// verbatim with no existence check.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.File, error) {
	f := models.File{
		ID:          input.ID,
		Name:        input.Name,
		NameCI:      text.Fold(input.Name),
		Size:        input.Size,
		ContentType: input.ContentType,
		UploadDate:  time.Now().UTC(),
		FolderID:    input.FolderID,
		OwnerID:     input.OwnerID,
	}

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID retrieves a file owned by owner. Returns mongo.ErrNoDocuments
// for missing files and for files owned by someone else.
func (s *Store) GetByID(ctx context.Context, owner primitive.ObjectID, id primitive.ObjectID) (*models.File, error) {
	var f models.File
	filter := bson.M{"_id": id, "user_id": owner}
	if err := s.c.FindOne(ctx, filter).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Rename updates the file's name. Returns false if no owned file matched
// the id.
func (s *Store) Rename(ctx context.Context, owner primitive.ObjectID, id primitive.ObjectID, name string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": owner},
		bson.M{"$set": bson.M{"name": name, "name_ci": text.Fold(name)}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Delete removes the file record. Returns false if no owned file matched
// the id.
func (s *Store) Delete(ctx context.Context, owner primitive.ObjectID, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": owner})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListByFolder returns the files directly inside folderID. Pass nil for
// root-level files; a nil folder matches both literal-null and
// empty-string references (legacy encoding). Order is not guaranteed.
func (s *Store) ListByFolder(ctx context.Context, owner primitive.ObjectID, folderID *string) ([]models.File, error) {
	var filter bson.M
	if folderID == nil || *folderID == "" {
		filter = bson.M{"folder_id": bson.M{"$in": bson.A{nil, ""}}}
	} else {
		filter = bson.M{"folder_id": *folderID}
	}
	filter["user_id"] = owner

	cursor, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Search returns all of the owner's files whose folded name contains the
// given folded pattern, regardless of which folder they live in. The
// pattern must already be regex-escaped.
func (s *Store) Search(ctx context.Context, owner primitive.ObjectID, pattern string) ([]models.File, error) {
	filter := bson.M{
		"user_id": owner,
		"name_ci": bson.M{"$regex": pattern},
	}

	cursor, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// CountByFolder returns the number of owned files whose folder reference
// equals the given hex id. Used by the shallow emptiness check before a
// folder delete.
func (s *Store) CountByFolder(ctx context.Context, owner primitive.ObjectID, folderID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": owner, "folder_id": folderID})
}
