package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File represents file metadata in a user's file tree.
//
// The document id doubles as the object key in the content store, so the
// metadata row and the blob are linked by id alone, not by a transaction.
// FolderID follows the same nil-or-empty-string root convention as
// Folder.ParentID and is stored verbatim without an existence check.
type File struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	NameCI      string             `bson:"name_ci"` // folded for case-insensitive search
	Size        int64              `bson:"size"`    // bytes
	ContentType string             `bson:"content_type"`
	UploadDate  time.Time          `bson:"upload_date"`
	FolderID    *string            `bson:"folder_id"`
	OwnerID     primitive.ObjectID `bson:"user_id"`
}

// IsInRoot returns true if the file is at the root level (not in any folder).
func (f *File) IsInRoot() bool {
	return f.FolderID == nil || *f.FolderID == ""
}
