package folders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxNameLength = 255

// FileEntry is the slice of file metadata a folder listing needs. The files
// feature fills it in through an adapter so the two packages stay decoupled.
type FileEntry struct {
	ID           string
	Name         string
	SizeBytes    int64
	StorageClass string
	CreatedAt    time.Time
}

// FileLister lists the files stored directly inside a folder. folderID is
// empty for the root level.
type FileLister interface {
	ListByFolder(ctx context.Context, ownerID, folderID string) ([]FileEntry, error)
}

// Service contains business logic for folders.
type Service struct {
	Repo  Repo
	Files FileLister
}

// CreateInput carries the fields accepted when creating a folder.
type CreateInput struct {
	Name        string
	Description string
	ParentID    string
}

// Contents is a folder plus everything directly inside it.
type Contents struct {
	Folder  *Folder
	Folders []Folder
	Files   []FileEntry
}

// Create validates the name and inserts the folder.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Folder, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return Folder{}, err
	}

	now := time.Now().UTC()
	folder := Folder{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		ParentID:    strings.TrimSpace(in.ParentID),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repo.Create(ctx, folder); err != nil {
		return Folder{}, err
	}
	return folder, nil
}

// Get returns a single folder.
func (s *Service) Get(ctx context.Context, ownerID, folderID string) (Folder, error) {
	return s.Repo.GetByID(ctx, ownerID, folderID)
}

// List returns a folder (nil for the root level) together with its child
// folders and files.
func (s *Service) List(ctx context.Context, ownerID, folderID string) (Contents, error) {
	var out Contents

	if folderID != "" {
		folder, err := s.Repo.GetByID(ctx, ownerID, folderID)
		if err != nil {
			return Contents{}, err
		}
		out.Folder = &folder
	}

	children, err := s.Repo.ListChildren(ctx, ownerID, folderID)
	if err != nil {
		return Contents{}, err
	}
	out.Folders = children

	if s.Files != nil {
		entries, err := s.Files.ListByFolder(ctx, ownerID, folderID)
		if err != nil {
			return Contents{}, err
		}
		out.Files = entries
	}
	return out, nil
}

// Rename changes a folder's name and description, then returns the updated
// folder.
func (s *Service) Rename(ctx context.Context, ownerID, folderID, name, description string) (Folder, error) {
	cleaned, err := cleanName(name)
	if err != nil {
		return Folder{}, err
	}
	if err := s.Repo.Update(ctx, ownerID, folderID, cleaned, strings.TrimSpace(description)); err != nil {
		return Folder{}, err
	}
	return s.Repo.GetByID(ctx, ownerID, folderID)
}

// Move reparents a folder. An empty newParentID moves it to the root.
func (s *Service) Move(ctx context.Context, ownerID, folderID, newParentID string) (Folder, error) {
	newParentID = strings.TrimSpace(newParentID)
	if err := s.Repo.Move(ctx, ownerID, folderID, newParentID); err != nil {
		return Folder{}, err
	}
	return s.Repo.GetByID(ctx, ownerID, folderID)
}

// Delete removes an empty folder.
func (s *Service) Delete(ctx context.Context, ownerID, folderID string) error {
	return s.Repo.Delete(ctx, ownerID, folderID)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return "", ErrInvalidInput
	}
	if strings.ContainsAny(name, "/\x00") {
		return "", ErrInvalidInput
	}
	return name, nil
}
