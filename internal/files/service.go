package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"fileuploader-backend/internal/shared/metrics"
	"fileuploader-backend/internal/shared/storage/blob"
	"fileuploader-backend/internal/shared/telemetry"
)

const maxDisplayNameLength = 255

// FolderGuard verifies that a folder exists and belongs to the owner. It
// returns ErrNotFound (this package's sentinel) otherwise; the bootstrap
// adapts the folders service to it.
type FolderGuard interface {
	Require(ctx context.Context, ownerID, folderID string) error
}

// ReclaimQueue accepts blob coordinates whose immediate deletion failed so a
// worker can retry later. Enqueue is best-effort; a failure is logged, never
// surfaced to the client.
type ReclaimQueue interface {
	EnqueueReclaim(ctx context.Context, externalID string, class blob.Class) error
}

// Service coordinates the metadata store and the blob store so the two stay
// consistent. Uploads write the blob first and compensate on metadata
// failure; deletes remove the row first and reclaim the blob best-effort.
// At any moment a blob may exist without a row, but never a row without a
// blob.
type Service struct {
	Repo    Repo
	Folders FolderGuard
	Store   blob.Store
	Reclaim ReclaimQueue

	// MaxUploadBytes caps a single upload; zero means no cap.
	MaxUploadBytes int64
}

// UploadInput carries the fields accepted when uploading a file.
type UploadInput struct {
	FolderID    string
	DisplayName string
	FileName    string
	MimeType    string
	Content     io.Reader
}

// Upload stores the payload in the blob store, then records the metadata
// row. If the row cannot be written the stored blob is deleted again, so a
// failed upload leaves at most a transient orphan blob and never a row
// pointing at nothing.
func (s *Service) Upload(ctx context.Context, ownerID string, in UploadInput) (File, error) {
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		return File{}, ErrInvalidInput
	}
	displayName := strings.TrimSpace(in.DisplayName)
	if len(displayName) > maxDisplayNameLength {
		return File{}, ErrInvalidInput
	}
	if in.FolderID != "" {
		if err := s.Folders.Require(ctx, ownerID, in.FolderID); err != nil {
			return File{}, err
		}
	}

	metrics.IncUploadStarted()

	declared := blob.Classify(in.MimeType)
	res, err := s.Store.Put(ctx, ownerID, fileName, declared, in.Content, s.MaxUploadBytes)
	if err != nil {
		metrics.IncUploadFailed()
		if errors.Is(err, blob.ErrTooLarge) {
			return File{}, ErrTooLarge
		}
		return File{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	now := time.Now().UTC()
	file := File{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		FolderID:     in.FolderID,
		OriginalName: fileName,
		DisplayName:  displayName,
		MimeType:     in.MimeType,
		SizeBytes:    res.SizeBytes,
		ExternalID:   res.ExternalID,
		ExternalURL:  res.URL,
		StorageClass: res.ResolvedClass,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if file.DisplayName == "" {
		file.DisplayName = fileName
	}

	if err := s.Repo.Create(ctx, file); err != nil {
		metrics.IncUploadFailed()
		s.reclaimBlob(ctx, res.ExternalID, res.ResolvedClass, "upload compensation")
		if errors.Is(err, ErrNotFound) {
			return File{}, ErrNotFound
		}
		return File{}, fmt.Errorf("%w: %v", ErrMetadataPersist, err)
	}

	metrics.IncUploadCompleted()
	metrics.ObserveUploadSizeBytes(float64(res.SizeBytes))
	return file, nil
}

// Get returns a single file.
func (s *Service) Get(ctx context.Context, ownerID, fileID string) (File, error) {
	return s.Repo.GetByID(ctx, ownerID, fileID)
}

// ListByFolder lists files inside a folder (empty folderID for root).
func (s *Service) ListByFolder(ctx context.Context, ownerID, folderID string) ([]File, error) {
	if folderID != "" {
		if err := s.Folders.Require(ctx, ownerID, folderID); err != nil {
			return nil, err
		}
	}
	return s.Repo.ListByFolder(ctx, ownerID, folderID)
}

// Rename changes the display name and returns the updated file.
func (s *Service) Rename(ctx context.Context, ownerID, fileID, displayName string) (File, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" || len(displayName) > maxDisplayNameLength {
		return File{}, ErrInvalidInput
	}
	if err := s.Repo.Rename(ctx, ownerID, fileID, displayName); err != nil {
		return File{}, err
	}
	return s.Repo.GetByID(ctx, ownerID, fileID)
}

// Delete removes the metadata row, then reclaims the blob. The row goes
// first: once it is gone the file has disappeared for the owner even if the
// blob lingers, and the reclaim queue mops up any blob the immediate delete
// misses.
func (s *Service) Delete(ctx context.Context, ownerID, fileID string) error {
	file, err := s.Repo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, ownerID, fileID); err != nil {
		return err
	}
	s.reclaimBlob(ctx, file.ExternalID, file.StorageClass, "file delete")
	return nil
}

// DownloadURL builds an attachment URL from the persisted storage class.
func (s *Service) DownloadURL(ctx context.Context, ownerID, fileID string) (string, File, error) {
	file, err := s.Repo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return "", File{}, err
	}
	return s.Store.DownloadURL(file.ExternalID, file.StorageClass, file.OriginalName), file, nil
}

// reclaimBlob deletes the blob, falling back to the reclaim queue when the
// store is unreachable. Neither path fails the caller's request.
func (s *Service) reclaimBlob(ctx context.Context, externalID string, class blob.Class, reason string) {
	err := s.Store.Delete(ctx, externalID, class)
	if err == nil {
		return
	}
	metrics.IncBlobReclaimFailed()
	telemetry.Warn("blob delete failed", map[string]any{
		"external_id":   externalID,
		"storage_class": string(class),
		"reason":        reason,
		"error":         err.Error(),
	})

	if s.Reclaim == nil {
		return
	}
	if err := s.Reclaim.EnqueueReclaim(ctx, externalID, class); err != nil {
		telemetry.Error("blob reclaim enqueue failed", map[string]any{
			"external_id":   externalID,
			"storage_class": string(class),
			"reason":        reason,
			"error":         err.Error(),
		})
	}
}
