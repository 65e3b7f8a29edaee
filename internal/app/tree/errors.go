package tree

import "errors"

var (
	// ErrNotFound is returned when an item does not exist or belongs to a
	// different owner. The two cases are deliberately indistinguishable so
	// that probing another user's ids leaks nothing.
	ErrNotFound = errors.New("item not found")

	// ErrFolderNotEmpty is returned when deleting a folder that still has
	// direct children.
	ErrFolderNotEmpty = errors.New("cannot delete non-empty folder")

	// ErrCycle is returned when a breadcrumb walk detects a parent-link
	// cycle. Cycles can only appear through direct store manipulation;
	// surfacing them beats walking forever.
	ErrCycle = errors.New("folder parent links form a cycle")
)
