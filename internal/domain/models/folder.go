package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder represents a folder in a user's file tree.
//
// ParentID holds the hex id of the parent folder. Root-level folders are
// stored with a nil parent, but legacy documents may carry an empty string
// instead; both spellings mean "root" and queries must treat them the same.
// The reference is not foreign-key enforced: a parent may be deleted out
// from under its children, leaving a dangling id.
type Folder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	NameCI    string             `bson:"name_ci"` // folded for case-insensitive search
	ParentID  *string            `bson:"parent_folder_id"`
	CreatedAt time.Time          `bson:"created_at"`
	OwnerID   primitive.ObjectID `bson:"user_id"`
}

// IsRoot returns true if the folder is at the root level.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil || *f.ParentID == ""
}
