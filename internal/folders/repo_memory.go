package folders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used for dev mode and
// tests. It enforces the same sibling-uniqueness, cycle, and empty-folder
// rules as the Postgres repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Folder // folder id -> folder

	// HasFiles reports whether any file rows reference the folder. The
	// bootstrap wires this to the in-memory files repo; nil means no files
	// exist anywhere.
	HasFiles func(ownerID, folderID string) bool
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Folder),
	}
}

// Create stores a new folder.
func (r *MemoryRepo) Create(ctx context.Context, folder Folder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if folder.ParentID != "" {
		parent, ok := r.data[folder.ParentID]
		if !ok || parent.OwnerID != folder.OwnerID {
			return ErrNotFound
		}
	}
	if r.siblingExistsLocked(folder.OwnerID, folder.ParentID, folder.Name, "") {
		return ErrConflict
	}
	r.data[folder.ID] = folder
	return nil
}

// GetByID returns a folder by ID for an owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, folderID string) (Folder, error) {
	if err := ctx.Err(); err != nil {
		return Folder{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	folder, ok := r.data[folderID]
	if !ok || folder.OwnerID != ownerID {
		return Folder{}, ErrNotFound
	}
	return folder, nil
}

// ListChildren returns the folders under parentID, ordered by name.
func (r *MemoryRepo) ListChildren(ctx context.Context, ownerID, parentID string) ([]Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Folder
	for _, folder := range r.data {
		if folder.OwnerID == ownerID && folder.ParentID == parentID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update changes a folder's name and description.
func (r *MemoryRepo) Update(ctx context.Context, ownerID, folderID, name, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.data[folderID]
	if !ok || folder.OwnerID != ownerID {
		return ErrNotFound
	}
	if r.siblingExistsLocked(ownerID, folder.ParentID, name, folderID) {
		return ErrConflict
	}
	folder.Name = name
	folder.Description = description
	folder.UpdatedAt = time.Now().UTC()
	r.data[folderID] = folder
	return nil
}

// Move reparents a folder, rejecting cycles and duplicate sibling names.
func (r *MemoryRepo) Move(ctx context.Context, ownerID, folderID, newParentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.data[folderID]
	if !ok || folder.OwnerID != ownerID {
		return ErrNotFound
	}
	if newParentID != "" {
		if newParentID == folderID {
			return ErrConflict
		}
		parent, ok := r.data[newParentID]
		if !ok || parent.OwnerID != ownerID {
			return ErrNotFound
		}
		for cursor := newParentID; cursor != ""; {
			ancestor, ok := r.data[cursor]
			if !ok {
				break
			}
			if ancestor.ParentID == folderID {
				return ErrConflict
			}
			cursor = ancestor.ParentID
		}
	}
	if r.siblingExistsLocked(ownerID, newParentID, folder.Name, folderID) {
		return ErrConflict
	}
	folder.ParentID = newParentID
	folder.UpdatedAt = time.Now().UTC()
	r.data[folderID] = folder
	return nil
}

// Delete removes an empty folder.
func (r *MemoryRepo) Delete(ctx context.Context, ownerID, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.data[folderID]
	if !ok || folder.OwnerID != ownerID {
		return ErrNotFound
	}
	for _, other := range r.data {
		if other.ParentID == folderID {
			return ErrNotEmpty
		}
	}
	if r.HasFiles != nil && r.HasFiles(ownerID, folderID) {
		return ErrNotEmpty
	}
	delete(r.data, folderID)
	return nil
}

func (r *MemoryRepo) siblingExistsLocked(ownerID, parentID, name, excludeID string) bool {
	for _, folder := range r.data {
		if folder.OwnerID == ownerID && folder.ParentID == parentID && folder.Name == name && folder.ID != excludeID {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
