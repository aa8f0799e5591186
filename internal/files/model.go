package files

import (
	"time"

	"fileuploader-backend/internal/shared/storage/blob"
)

// File is the metadata row for a stored object. StorageClass is resolved
// once at upload time and persisted; every later blob operation (delete,
// download URL) reads it from here instead of re-deriving it from the MIME
// type.
type File struct {
	ID           string
	OwnerID      string
	FolderID     string
	OriginalName string
	DisplayName  string
	MimeType     string
	SizeBytes    int64
	ExternalID   string
	ExternalURL  string
	StorageClass blob.Class
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
