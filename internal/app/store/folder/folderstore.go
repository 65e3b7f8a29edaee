// Package folder provides owner-scoped storage for folders.
//
// Every query and mutation is filtered by the owning user's id; a folder
// belonging to another owner is indistinguishable from a missing one. This
// scoping is the system's only tenant-isolation mechanism.
package folder

import (
	"context"
	"time"

	"filevault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the folders collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new folder store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("folders")}
}

// rootOrEqual builds the reference filter for a nullable folder reference.
// A nil id means root, which legacy documents encode as either a literal
// null or an empty string; both must match.
func rootOrEqual(field string, id *string) bson.M {
	if id == nil || *id == "" {
		return bson.M{field: bson.M{"$in": bson.A{nil, ""}}}
	}
	return bson.M{field: *id}
}

// CreateInput contains the input for creating a folder.
type CreateInput struct {
	Name     string
	ParentID *string
	OwnerID  primitive.ObjectID
}

// Create inserts a new folder. The parent reference is stored verbatim;
// no check is made that the parent exists or is owned by the caller.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Folder, error) {
	f := models.Folder{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		NameCI:    text.Fold(input.Name),
		ParentID:  input.ParentID,
		CreatedAt: time.Now().UTC(),
		OwnerID:   input.OwnerID,
	}

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID retrieves a folder owned by owner. Returns mongo.ErrNoDocuments
// for missing folders and for folders owned by someone else.
func (s *Store) GetByID(ctx context.Context, owner primitive.ObjectID, id primitive.ObjectID) (*models.Folder, error) {
	var f models.Folder
	filter := bson.M{"_id": id, "user_id": owner}
	if err := s.c.FindOne(ctx, filter).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Rename updates the folder's name. Returns false if no owned folder
// matched the id.
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

// Delete removes the folder document. Returns false if no owned folder
// matched the id (already gone, never existed, or not the caller's).
func (s *Store) Delete(ctx context.Context, owner primitive.ObjectID, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": owner})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListByParent returns the folders directly under parentID. Pass nil for
// root-level folders. Order is whatever the store returns; callers must
// not rely on it.
func (s *Store) ListByParent(ctx context.Context, owner primitive.ObjectID, parentID *string) ([]models.Folder, error) {
	filter := rootOrEqual("parent_folder_id", parentID)
	filter["user_id"] = owner

	cursor, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// Search returns all of the owner's folders whose folded name contains the
// given folded pattern, regardless of depth. The pattern must already be
// regex-escaped.
func (s *Store) Search(ctx context.Context, owner primitive.ObjectID, pattern string) ([]models.Folder, error) {
	filter := bson.M{
		"user_id": owner,
		"name_ci": bson.M{"$regex": pattern},
	}

	cursor, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CountByParent returns the number of owned folders whose parent reference
// equals the given hex id. Used by the shallow emptiness check before a
// folder delete.
func (s *Store) CountByParent(ctx context.Context, owner primitive.ObjectID, parentID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": owner, "parent_folder_id": parentID})
}
