package files

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"fileuploader-backend/internal/shared/storage/blob"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new file row. A missing folder maps to ErrNotFound.
func (r *PGRepo) Create(ctx context.Context, file File) error {
	const query = `
INSERT INTO files (
    id,
    owner_id,
    folder_id,
    original_name,
    display_name,
    mime_type,
    size_bytes,
    external_id,
    external_url,
    storage_class,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	displayName := file.DisplayName
	if displayName == "" {
		displayName = file.OriginalName
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		file.ID,
		file.OwnerID,
		nullableString(file.FolderID),
		file.OriginalName,
		displayName,
		file.MimeType,
		file.SizeBytes,
		file.ExternalID,
		file.ExternalURL,
		string(file.StorageClass),
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// GetByID fetches a file by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, fileID string) (File, error) {
	const query = `
SELECT id, owner_id, folder_id, original_name, display_name, mime_type, size_bytes, external_id, external_url, storage_class, created_at, updated_at
FROM files
WHERE owner_id = $1 AND id = $2
LIMIT 1`
	return scanFile(r.DB.QueryRowContext(ctx, query, ownerID, fileID))
}

// ListByFolder lists files in a folder (empty folderID for root), newest
// first.
func (r *PGRepo) ListByFolder(ctx context.Context, ownerID, folderID string) ([]File, error) {
	const query = `
SELECT id, owner_id, folder_id, original_name, display_name, mime_type, size_bytes, external_id, external_url, storage_class, created_at, updated_at
FROM files
WHERE owner_id = $1
  AND COALESCE(folder_id, '00000000-0000-0000-0000-000000000000'::uuid) =
      COALESCE($2::uuid, '00000000-0000-0000-0000-000000000000'::uuid)
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, nullableString(folderID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, rows.Err()
}

// Rename updates the display name.
func (r *PGRepo) Rename(ctx context.Context, ownerID, fileID, displayName string) error {
	const query = `
UPDATE files
SET display_name = $1, updated_at = $2
WHERE owner_id = $3 AND id = $4`

	res, err := r.DB.ExecContext(ctx, query, displayName, time.Now().UTC(), ownerID, fileID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the metadata row. The caller reclaims the blob afterwards;
// a zero row count means another request already deleted it.
func (r *PGRepo) Delete(ctx context.Context, ownerID, fileID string) error {
	const query = `DELETE FROM files WHERE owner_id = $1 AND id = $2`

	res, err := r.DB.ExecContext(ctx, query, ownerID, fileID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Totals returns per-owner file count and summed bytes.
func (r *PGRepo) Totals(ctx context.Context, ownerID string) (int64, int64, error) {
	const query = `
SELECT COUNT(*), COALESCE(SUM(size_bytes), 0)
FROM files
WHERE owner_id = $1`

	var count, bytes int64
	if err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(&count, &bytes); err != nil {
		return 0, 0, err
	}
	return count, bytes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (File, error) {
	var file File
	var folderID sql.NullString
	var storageClass string
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
		&folderID,
		&file.OriginalName,
		&file.DisplayName,
		&file.MimeType,
		&file.SizeBytes,
		&file.ExternalID,
		&file.ExternalURL,
		&storageClass,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, err
	}
	if folderID.Valid {
		file.FolderID = folderID.String
	}
	file.StorageClass = blob.Class(storageClass)
	return file, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
