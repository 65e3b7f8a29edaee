package file

import (
	"testing"

	"filevault/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()

	created, err := store.Create(ctx, CreateInput{
		ID:          id,
		Name:        "report.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		OwnerID:     owner,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID != id {
		t.Errorf("Create() ID = %v, want caller-allocated %v", created.ID, id)
	}
	if created.UploadDate.IsZero() {
		t.Error("Create() did not set UploadDate")
	}
	if created.NameCI == "" {
		t.Error("Create() did not set NameCI")
	}
	if !created.IsInRoot() {
		t.Error("file with nil folder should be in root")
	}
}

func TestStore_GetByID_OwnerScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()

	if _, err := store.Create(ctx, CreateInput{
		ID:      id,
		Name:    "secret.txt",
		OwnerID: owner,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := store.GetByID(ctx, owner, id); err != nil {
		t.Fatalf("GetByID() as owner error = %v", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID(), id); err == nil {
		t.Error("GetByID() as stranger should not find the file")
	}
}

func TestStore_ListByFolder_RootMatchesNullAndEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	empty := ""
	folderHex := primitive.NewObjectID().Hex()

	for _, in := range []CreateInput{
		{ID: primitive.NewObjectID(), Name: "null_root.txt", OwnerID: owner},
		{ID: primitive.NewObjectID(), Name: "empty_root.txt", FolderID: &empty, OwnerID: owner},
		{ID: primitive.NewObjectID(), Name: "nested.txt", FolderID: &folderHex, OwnerID: owner},
	} {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("Create(%q) error = %v", in.Name, err)
		}
	}

	roots, err := store.ListByFolder(ctx, owner, nil)
	if err != nil {
		t.Fatalf("ListByFolder(nil) error = %v", err)
	}
	if len(roots) != 2 {
		t.Errorf("ListByFolder(nil) returned %d files, want 2", len(roots))
	}

	nested, err := store.ListByFolder(ctx, owner, &folderHex)
	if err != nil {
		t.Fatalf("ListByFolder(folder) error = %v", err)
	}
	if len(nested) != 1 || nested[0].Name != "nested.txt" {
		t.Errorf("ListByFolder(folder) = %v, want just nested.txt", nested)
	}
}

func TestStore_Rename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()
	if _, err := store.Create(ctx, CreateInput{ID: id, Name: "old.txt", OwnerID: owner}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	matched, err := store.Rename(ctx, owner, id, "new.txt")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if !matched {
		t.Error("Rename() matched = false, want true")
	}

	got, err := store.GetByID(ctx, owner, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "new.txt" {
		t.Errorf("Name = %q, want %q", got.Name, "new.txt")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()
	if _, err := store.Create(ctx, CreateInput{ID: id, Name: "doomed.txt", OwnerID: owner}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deleted, err := store.Delete(ctx, owner, id)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("Delete() deleted = false, want true")
	}

	deleted, err = store.Delete(ctx, owner, id)
	if err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}
	if deleted {
		t.Error("Delete() second call deleted = true, want false")
	}
}

func TestStore_Search_IgnoresFolderBoundaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	folderHex := primitive.NewObjectID().Hex()

	for _, in := range []CreateInput{
		{ID: primitive.NewObjectID(), Name: "old_reports.txt", OwnerID: owner},
		{ID: primitive.NewObjectID(), Name: "Reports Q3.xlsx", FolderID: &folderHex, OwnerID: owner},
		{ID: primitive.NewObjectID(), Name: "notes.txt", OwnerID: owner},
	} {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("Create(%q) error = %v", in.Name, err)
		}
	}

	got, err := store.Search(ctx, owner, "reports")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Search(reports) returned %d files, want 2", len(got))
	}
}

func TestStore_CountByFolder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	folderHex := primitive.NewObjectID().Hex()

	count, err := store.CountByFolder(ctx, owner, folderHex)
	if err != nil {
		t.Fatalf("CountByFolder() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountByFolder() = %d, want 0", count)
	}

	if _, err := store.Create(ctx, CreateInput{
		ID:       primitive.NewObjectID(),
		Name:     "inside.txt",
		FolderID: &folderHex,
		OwnerID:  owner,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	count, err = store.CountByFolder(ctx, owner, folderHex)
	if err != nil {
		t.Fatalf("CountByFolder() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountByFolder() = %d, want 1", count)
	}
}
