package folders

import (
	"context"
	"errors"
	"testing"
)

func newTestService() *Service {
	return &Service{Repo: NewMemoryRepo()}
}

func TestCreateRejectsBadNames(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, name := range []string{"", "   ", "a/b", "bad\x00name"} {
		if _, err := svc.Create(ctx, "owner-1", CreateInput{Name: name}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Create(%q): got %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestCreateDuplicateSiblingConflicts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Docs"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Docs"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate create: got %v, want ErrConflict", err)
	}

	// Same name under a different parent is fine.
	parent, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Work"})
	if err != nil {
		t.Fatalf("Create parent: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Docs", ParentID: parent.ID}); err != nil {
		t.Fatalf("Create nested: %v", err)
	}

	// And so is the same name for a different owner.
	if _, err := svc.Create(ctx, "owner-2", CreateInput{Name: "Docs"}); err != nil {
		t.Fatalf("Create other owner: %v", err)
	}
}

func TestCreateUnderForeignParentIsNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	parent, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Private"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Create(ctx, "owner-2", CreateInput{Name: "Sneaky", ParentID: parent.ID}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner create: got %v, want ErrNotFound", err)
	}
}

func TestMoveRejectsCycles(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, "owner-1", CreateInput{Name: "a"})
	b, _ := svc.Create(ctx, "owner-1", CreateInput{Name: "b", ParentID: a.ID})
	c, _ := svc.Create(ctx, "owner-1", CreateInput{Name: "c", ParentID: b.ID})

	if _, err := svc.Move(ctx, "owner-1", a.ID, a.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("move into self: got %v, want ErrConflict", err)
	}
	if _, err := svc.Move(ctx, "owner-1", a.ID, c.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("move into descendant: got %v, want ErrConflict", err)
	}

	// Moving a leaf to the root is fine.
	moved, err := svc.Move(ctx, "owner-1", c.ID, "")
	if err != nil {
		t.Fatalf("Move to root: %v", err)
	}
	if moved.ParentID != "" {
		t.Fatalf("ParentID = %q, want root", moved.ParentID)
	}
}

func TestMoveIntoFolderWithSameNamedChildConflicts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	target, _ := svc.Create(ctx, "owner-1", CreateInput{Name: "target"})
	if _, err := svc.Create(ctx, "owner-1", CreateInput{Name: "dup", ParentID: target.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	loose, _ := svc.Create(ctx, "owner-1", CreateInput{Name: "dup"})

	if _, err := svc.Move(ctx, "owner-1", loose.ID, target.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("move onto duplicate sibling: got %v, want ErrConflict", err)
	}
}

func TestDeleteNonEmptyFolder(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	ctx := context.Background()

	parent, _ := svc.Create(ctx, "owner-1", CreateInput{Name: "parent"})
	child, _ := svc.Create(ctx, "owner-1", CreateInput{Name: "child", ParentID: parent.ID})

	if err := svc.Delete(ctx, "owner-1", parent.ID); !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("delete with child folder: got %v, want ErrNotEmpty", err)
	}

	if err := svc.Delete(ctx, "owner-1", child.ID); err != nil {
		t.Fatalf("delete leaf: %v", err)
	}

	// Folders holding files are equally protected.
	repo.HasFiles = func(ownerID, folderID string) bool { return folderID == parent.ID }
	if err := svc.Delete(ctx, "owner-1", parent.ID); !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("delete with files: got %v, want ErrNotEmpty", err)
	}

	repo.HasFiles = nil
	if err := svc.Delete(ctx, "owner-1", parent.ID); err != nil {
		t.Fatalf("delete emptied folder: %v", err)
	}
	if err := svc.Delete(ctx, "owner-1", parent.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestListReturnsChildrenAndFiles(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo: repo,
		Files: fileListerFunc(func(ctx context.Context, ownerID, folderID string) ([]FileEntry, error) {
			if folderID == "" {
				return []FileEntry{{ID: "f-root", Name: "notes.txt"}}, nil
			}
			return nil, nil
		}),
	}
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner-1", CreateInput{Name: "zeta"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", CreateInput{Name: "alpha"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	contents, err := svc.List(ctx, "owner-1", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if contents.Folder != nil {
		t.Fatal("root listing should not include a folder")
	}
	if len(contents.Folders) != 2 || contents.Folders[0].Name != "alpha" {
		t.Fatalf("unexpected folder order: %+v", contents.Folders)
	}
	if len(contents.Files) != 1 || contents.Files[0].Name != "notes.txt" {
		t.Fatalf("unexpected files: %+v", contents.Files)
	}
}

type fileListerFunc func(ctx context.Context, ownerID, folderID string) ([]FileEntry, error)

func (f fileListerFunc) ListByFolder(ctx context.Context, ownerID, folderID string) ([]FileEntry, error) {
	return f(ctx, ownerID, folderID)
}
