package files

import (
	"context"
	"errors"
)

var (
	// ErrNotFound covers both a missing file and one owned by another
	// user.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidInput reports a rejected file name or display name.
	ErrInvalidInput = errors.New("invalid file input")
	// ErrTooLarge reports a payload over the configured upload limit.
	ErrTooLarge = errors.New("file exceeds upload limit")
	// ErrUploadFailed reports a blob store write that did not complete; no
	// metadata row exists for the attempt.
	ErrUploadFailed = errors.New("blob upload failed")
	// ErrMetadataPersist reports a metadata insert that failed after the
	// blob was written; the blob has been compensated (deleted or queued
	// for reclamation).
	ErrMetadataPersist = errors.New("file metadata persist failed")
)

// Repo defines persistence operations for file metadata.
type Repo interface {
	Create(ctx context.Context, file File) error
	GetByID(ctx context.Context, ownerID, fileID string) (File, error)
	// ListByFolder returns the files directly inside folderID (empty for
	// root), newest first.
	ListByFolder(ctx context.Context, ownerID, folderID string) ([]File, error)
	Rename(ctx context.Context, ownerID, fileID, displayName string) error
	Delete(ctx context.Context, ownerID, fileID string) error
	// Totals returns the number of files and the summed size for an owner.
	Totals(ctx context.Context, ownerID string) (count int64, bytes int64, err error)
}
