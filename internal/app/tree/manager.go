// Package tree owns the consistency rules of each user's folder hierarchy:
// owner scoping, the one-level listing vs whole-tree search split, the
// shallow non-empty delete guard, blob/metadata write ordering, and
// breadcrumb reconstruction.
package tree

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	filestore "filevault/internal/app/store/file"
	folderstore "filevault/internal/app/store/folder"
	"filevault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxBreadcrumbDepth caps the upward walk. Any legitimate tree is far
// shallower; hitting the cap is treated the same as a detected cycle.
const maxBreadcrumbDepth = 256

// BlobStore is the slice of the content store the tree manager needs.
// waffle's storage.Store (local or S3 backend) satisfies it; tests
// substitute an in-memory fake.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, opts *storage.PutOptions) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Manager enforces the tree invariants over the folder store, file store,
// and blob store. All operations take the resolved owner id as their first
// input and scope every query to it.
type Manager struct {
	folders *folderstore.Store
	files   *filestore.Store
	blobs   BlobStore
	logger  *zap.Logger
}

// NewManager creates a tree manager. Dependencies are injected so tests
// can swap the blob backend.
func NewManager(folders *folderstore.Store, files *filestore.Store, blobs BlobStore, logger *zap.Logger) *Manager {
	return &Manager{
		folders: folders,
		files:   files,
		blobs:   blobs,
		logger:  logger,
	}
}

// Item type tags carried on every listing entry.
const (
	ItemTypeFile   = "file"
	ItemTypeFolder = "folder"
)

// Item is a single listing entry, folder or file, in the wire shape the
// API returns.
type Item struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ItemType       string     `json:"item_type"`
	FolderID       *string    `json:"folder_id"`
	ParentFolderID *string    `json:"parent_folder_id,omitempty"`
	Size           *int64     `json:"size,omitempty"`
	ContentType    string     `json:"content_type,omitempty"`
	UploadDate     *time.Time `json:"upload_date,omitempty"`
	CreatedDate    *time.Time `json:"created_date,omitempty"`
}

func folderItem(f models.Folder) Item {
	id := f.ID.Hex()
	created := f.CreatedAt
	return Item{
		ID:             id,
		Name:           f.Name,
		ItemType:       ItemTypeFolder,
		FolderID:       &id,
		ParentFolderID: f.ParentID,
		CreatedDate:    &created,
	}
}

func fileItem(f models.File) Item {
	size := f.Size
	uploaded := f.UploadDate
	return Item{
		ID:          f.ID.Hex(),
		Name:        f.Name,
		ItemType:    ItemTypeFile,
		FolderID:    f.FolderID,
		Size:        &size,
		ContentType: f.ContentType,
		UploadDate:  &uploaded,
	}
}

// parseID converts an API hex id. An unparseable id cannot name any owned
// item, so it maps to ErrNotFound rather than a validation error.
func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

// List returns the caller's items. With a non-empty search term the
// listing becomes a whole-tree, case-insensitive substring match on name
// — folderID is ignored entirely and folder boundaries do not apply.
// Otherwise it is a one-level listing of folderID (nil = root, matching
// both null and empty-string references). No ordering is guaranteed.
func (m *Manager) List(ctx context.Context, owner primitive.ObjectID, folderID *string, search string) ([]Item, error) {
	if term := strings.TrimSpace(search); term != "" {
		return m.search(ctx, owner, term)
	}

	folders, err := m.folders.ListByParent(ctx, owner, folderID)
	if err != nil {
		return nil, err
	}
	files, err := m.files.ListByFolder(ctx, owner, folderID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(folders)+len(files))
	for _, f := range folders {
		items = append(items, folderItem(f))
	}
	for _, f := range files {
		items = append(items, fileItem(f))
	}
	return items, nil
}

func (m *Manager) search(ctx context.Context, owner primitive.ObjectID, term string) ([]Item, error) {
	// Fold for case-insensitive matching, then escape so the term is a
	// plain substring, not a regex.
	pattern := regexp.QuoteMeta(text.Fold(term))

	folders, err := m.folders.Search(ctx, owner, pattern)
	if err != nil {
		return nil, err
	}
	files, err := m.files.Search(ctx, owner, pattern)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(folders)+len(files))
	for _, f := range folders {
		items = append(items, folderItem(f))
	}
	for _, f := range files {
		items = append(items, fileItem(f))
	}

	m.logger.Debug("tree search",
		zap.String("term", term),
		zap.Int("matches", len(items)),
	)
	return items, nil
}

// CreateFolder allocates a fresh folder under parentID. The parent is not
// checked for existence (known gap, preserved deliberately) and duplicate
// sibling names are allowed.
func (m *Manager) CreateFolder(ctx context.Context, owner primitive.ObjectID, name string, parentID *string) (*models.Folder, error) {
	return m.folders.Create(ctx, folderstore.CreateInput{
		Name:     name,
		ParentID: parentID,
		OwnerID:  owner,
	})
}

// RenameFolder changes a folder's name, the only mutable folder field.
func (m *Manager) RenameFolder(ctx context.Context, owner primitive.ObjectID, idHex, name string) error {
	id, err := parseID(idHex)
	if err != nil {
		return err
	}
	matched, err := m.folders.Rename(ctx, owner, id, name)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// DeleteFolder removes an empty folder. The emptiness check is shallow:
// only direct children are counted, which suffices because deeper
// descendants cannot exist without a direct child. The check and the
// delete are separate store operations; a child created in between may be
// orphaned, which is an accepted limitation. The delete itself re-verifies
// ownership and reports ErrNotFound if the row is already gone.
func (m *Manager) DeleteFolder(ctx context.Context, owner primitive.ObjectID, idHex string) error {
	id, err := parseID(idHex)
	if err != nil {
		return err
	}

	fileCount, err := m.files.CountByFolder(ctx, owner, idHex)
	if err != nil {
		return err
	}
	subfolderCount, err := m.folders.CountByParent(ctx, owner, idHex)
	if err != nil {
		return err
	}
	if fileCount > 0 || subfolderCount > 0 {
		return ErrFolderNotEmpty
	}

	deleted, err := m.folders.Delete(ctx, owner, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// UploadInput contains the input for uploading a file.
type UploadInput struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	FolderID    *string
}

// Upload writes the blob first and the metadata second, so a visible file
// record never references a missing blob. The two writes are not
// transactional: a crash in between leaves an orphaned blob, which is
// acceptable. If the metadata insert fails the blob is cleaned up
// best-effort. The folder reference is accepted verbatim.
func (m *Manager) Upload(ctx context.Context, owner primitive.ObjectID, input UploadInput) (*models.File, error) {
	id := primitive.NewObjectID()
	key := id.Hex()

	opts := &storage.PutOptions{ContentType: input.ContentType}
	if err := m.blobs.Put(ctx, key, input.Body, opts); err != nil {
		return nil, err
	}

	f, err := m.files.Create(ctx, filestore.CreateInput{
		ID:          id,
		Name:        input.Name,
		Size:        input.Size,
		ContentType: input.ContentType,
		FolderID:    input.FolderID,
		OwnerID:     owner,
	})
	if err != nil {
		if delErr := m.blobs.Delete(ctx, key); delErr != nil {
			m.logger.Warn("failed to clean up blob after metadata insert failure",
				zap.String("key", key),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	m.logger.Debug("file uploaded",
		zap.String("file_id", key),
		zap.Int64("size", f.Size),
	)
	return f, nil
}

// Download returns the file's metadata and a reader over its content. A
// blob missing from the content store is normalized to ErrNotFound rather
// than surfacing as an internal error.
func (m *Manager) Download(ctx context.Context, owner primitive.ObjectID, idHex string) (*models.File, io.ReadCloser, error) {
	id, err := parseID(idHex)
	if err != nil {
		return nil, nil, err
	}

	f, err := m.files.GetByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	reader, err := m.blobs.Get(ctx, f.ID.Hex())
	if err != nil {
		m.logger.Warn("file metadata present but blob missing",
			zap.String("file_id", f.ID.Hex()),
			zap.Error(err),
		)
		return nil, nil, ErrNotFound
	}
	return f, reader, nil
}

// RenameFile changes a file's name, the only mutable file field.
func (m *Manager) RenameFile(ctx context.Context, owner primitive.ObjectID, idHex, name string) error {
	id, err := parseID(idHex)
	if err != nil {
		return err
	}
	matched, err := m.files.Rename(ctx, owner, id, name)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// DeleteFile deletes the metadata first; that delete is authoritative.
// The blob delete afterwards is best-effort and failures (for example a
// blob that is already gone) are swallowed.
func (m *Manager) DeleteFile(ctx context.Context, owner primitive.ObjectID, idHex string) error {
	id, err := parseID(idHex)
	if err != nil {
		return err
	}

	deleted, err := m.files.Delete(ctx, owner, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	if err := m.blobs.Delete(ctx, idHex); err != nil {
		m.logger.Warn("failed to delete blob for removed file",
			zap.String("file_id", idHex),
			zap.Error(err),
		)
	}
	return nil
}

// Crumb is one entry of a breadcrumb trail. The synthetic root entry has a
// nil FolderID.
type Crumb struct {
	FolderID *string `json:"folder_id"`
	Name     string  `json:"name"`
}

// Breadcrumb walks parent links upward from folderID and returns the trail
// from root to the folder itself, always prefixed with the synthetic
// {null, "Home"} root entry. A parent that is missing or not owned by the
// caller silently truncates the walk (treated as reaching root). A cycle
// in the stored parent links returns ErrCycle.
func (m *Manager) Breadcrumb(ctx context.Context, owner primitive.ObjectID, folderID *string) ([]Crumb, error) {
	trail := []Crumb{}
	visited := make(map[string]struct{})

	current := folderID
	for current != nil && *current != "" {
		if _, seen := visited[*current]; seen || len(visited) >= maxBreadcrumbDepth {
			return nil, ErrCycle
		}
		visited[*current] = struct{}{}

		id, err := primitive.ObjectIDFromHex(*current)
		if err != nil {
			break
		}
		f, err := m.folders.GetByID(ctx, owner, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				break
			}
			return nil, err
		}

		hex := f.ID.Hex()
		trail = append([]Crumb{{FolderID: &hex, Name: f.Name}}, trail...)
		current = f.ParentID
	}

	return append([]Crumb{{FolderID: nil, Name: "Home"}}, trail...), nil
}
