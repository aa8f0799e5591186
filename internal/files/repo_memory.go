package files

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used for dev mode and
// tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]File // file id -> file
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]File),
	}
}

// Create stores a new file row.
func (r *MemoryRepo) Create(ctx context.Context, file File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if file.DisplayName == "" {
		file.DisplayName = file.OriginalName
	}
	r.data[file.ID] = file
	return nil
}

// GetByID returns a file by ID for an owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, fileID string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	file, ok := r.data[fileID]
	if !ok || file.OwnerID != ownerID {
		return File{}, ErrNotFound
	}
	return file, nil
}

// ListByFolder returns files in a folder, newest first.
func (r *MemoryRepo) ListByFolder(ctx context.Context, ownerID, folderID string) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []File
	for _, file := range r.data {
		if file.OwnerID == ownerID && file.FolderID == folderID {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Rename updates the display name.
func (r *MemoryRepo) Rename(ctx context.Context, ownerID, fileID, displayName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	file, ok := r.data[fileID]
	if !ok || file.OwnerID != ownerID {
		return ErrNotFound
	}
	file.DisplayName = displayName
	file.UpdatedAt = time.Now().UTC()
	r.data[fileID] = file
	return nil
}

// Delete removes the metadata row.
func (r *MemoryRepo) Delete(ctx context.Context, ownerID, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	file, ok := r.data[fileID]
	if !ok || file.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.data, fileID)
	return nil
}

// Totals returns per-owner file count and summed bytes.
func (r *MemoryRepo) Totals(ctx context.Context, ownerID string) (int64, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count, bytes int64
	for _, file := range r.data {
		if file.OwnerID == ownerID {
			count++
			bytes += file.SizeBytes
		}
	}
	return count, bytes, nil
}

// HasInFolder reports whether the owner has any file in the folder. The
// in-memory folders repo uses it for its empty-folder check.
func (r *MemoryRepo) HasInFolder(ownerID, folderID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, file := range r.data {
		if file.OwnerID == ownerID && file.FolderID == folderID {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
