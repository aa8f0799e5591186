package folders

import (
	"context"
	"errors"
)

var (
	// ErrNotFound covers both a missing folder and one owned by another
	// user; callers cannot tell the two apart.
	ErrNotFound = errors.New("folder not found")
	// ErrInvalidInput reports a rejected folder name or parent reference.
	ErrInvalidInput = errors.New("invalid folder input")
	// ErrConflict reports a duplicate sibling name or a move that would
	// place a folder inside its own subtree.
	ErrConflict = errors.New("folder name already exists in this location")
	// ErrNotEmpty reports a delete of a folder that still has contents.
	ErrNotEmpty = errors.New("folder is not empty")
)

// Repo defines persistence operations for folders. Implementations enforce
// the hierarchy invariants transactionally: concurrent creates of same-named
// siblings resolve to exactly one winner, and moves re-check the ancestor
// chain under a lock.
type Repo interface {
	Create(ctx context.Context, folder Folder) error
	GetByID(ctx context.Context, ownerID, folderID string) (Folder, error)
	// ListChildren returns the folders directly under parentID (empty for
	// root), ordered by name.
	ListChildren(ctx context.Context, ownerID, parentID string) ([]Folder, error)
	// Update changes name and description, re-checking sibling uniqueness.
	Update(ctx context.Context, ownerID, folderID, name, description string) error
	// Move reparents a folder. newParentID empty moves it to the root.
	Move(ctx context.Context, ownerID, folderID, newParentID string) error
	// Delete removes an empty folder; ErrNotEmpty otherwise.
	Delete(ctx context.Context, ownerID, folderID string) error
}
