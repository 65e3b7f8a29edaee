package folder

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
	created, err := store.Create(ctx, CreateInput{
		Name:    "Documents",
		OwnerID: owner,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID.IsZero() {
		t.Error("Create() did not assign ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}
	if created.NameCI == "" {
		t.Error("Create() did not set NameCI")
	}
	if !created.IsRoot() {
		t.Error("folder with nil parent should be a root folder")
	}
}

func TestStore_GetByID_OwnerScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	created, err := store.Create(ctx, CreateInput{Name: "Private", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := store.GetByID(ctx, owner, created.ID); err != nil {
		t.Fatalf("GetByID() as owner error = %v", err)
	}

	// Another user's lookup must behave exactly like a missing folder.
	if _, err := store.GetByID(ctx, stranger, created.ID); err == nil {
		t.Error("GetByID() as stranger should not find the folder")
	}
}

func TestStore_ListByParent_RootMatchesNullAndEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()

	// Nil parent: stored as literal null.
	if _, err := store.Create(ctx, CreateInput{Name: "NullRoot", OwnerID: owner}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Empty-string parent: the legacy encoding of root.
	empty := ""
	if _, err := store.Create(ctx, CreateInput{Name: "EmptyRoot", ParentID: &empty, OwnerID: owner}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	parent, err := store.Create(ctx, CreateInput{Name: "Parent", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	parentHex := parent.ID.Hex()
	if _, err := store.Create(ctx, CreateInput{Name: "Nested", ParentID: &parentHex, OwnerID: owner}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	roots, err := store.ListByParent(ctx, owner, nil)
	if err != nil {
		t.Fatalf("ListByParent(nil) error = %v", err)
	}
	if len(roots) != 3 {
		t.Errorf("ListByParent(nil) returned %d folders, want 3", len(roots))
	}

	nested, err := store.ListByParent(ctx, owner, &parentHex)
	if err != nil {
		t.Fatalf("ListByParent(parent) error = %v", err)
	}
	if len(nested) != 1 || nested[0].Name != "Nested" {
		t.Errorf("ListByParent(parent) = %v, want just Nested", nested)
	}
}

func TestStore_Rename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	created, err := store.Create(ctx, CreateInput{Name: "Old", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	matched, err := store.Rename(ctx, owner, created.ID, "New")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if !matched {
		t.Error("Rename() matched = false, want true")
	}

	got, err := store.GetByID(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "New" {
		t.Errorf("Name = %q, want %q", got.Name, "New")
	}

	matched, err = store.Rename(ctx, primitive.NewObjectID(), created.ID, "Stolen")
	if err != nil {
		t.Fatalf("Rename() as stranger error = %v", err)
	}
	if matched {
		t.Error("Rename() as stranger matched = true, want false")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	created, err := store.Create(ctx, CreateInput{Name: "Doomed", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deleted, err := store.Delete(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("Delete() deleted = false, want true")
	}

	deleted, err = store.Delete(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}
	if deleted {
		t.Error("Delete() second call deleted = true, want false")
	}
}

func TestStore_Search_FoldedSubstring(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	for _, name := range []string{"Reports", "reports2", "Archive"} {
		if _, err := store.Create(ctx, CreateInput{Name: name, OwnerID: owner}); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	got, err := store.Search(ctx, owner, "reports")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Search(reports) returned %d folders, want 2", len(got))
	}
}

func TestStore_CountByParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	parent, err := store.Create(ctx, CreateInput{Name: "Parent", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	parentHex := parent.ID.Hex()

	count, err := store.CountByParent(ctx, owner, parentHex)
	if err != nil {
		t.Fatalf("CountByParent() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountByParent() = %d, want 0", count)
	}

	if _, err := store.Create(ctx, CreateInput{Name: "Child", ParentID: &parentHex, OwnerID: owner}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	count, err = store.CountByParent(ctx, owner, parentHex)
	if err != nil {
		t.Fatalf("CountByParent() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountByParent() = %d, want 1", count)
	}
}
