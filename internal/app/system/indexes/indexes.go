// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureFolders(ctx, db); err != nil {
		problems = append(problems, "folders: "+err.Error())
	}
	if err := ensureFiles(ctx, db); err != nil {
		problems = append(problems, "files: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New("index creation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// ensureUsers creates the unique email index that backs the
// duplicate-registration check. The match is exact and case-preserving,
// so no collation is applied.
func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

// ensureFolders creates lookup indexes for one-level listings, the
// emptiness check, and folded-name search. None are unique: duplicate
// sibling names are allowed.
func ensureFolders(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("folders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "parent_folder_id", Value: 1}},
			Options: options.Index().SetName("owner_parent"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("owner_name_ci"),
		},
	})
	return err
}

// ensureFiles mirrors the folder indexes for the files collection.
func ensureFiles(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("files").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "folder_id", Value: 1}},
			Options: options.Index().SetName("owner_folder"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("owner_name_ci"),
		},
	})
	return err
}
