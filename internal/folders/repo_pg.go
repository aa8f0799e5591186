package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// moveDepthLimit bounds the ancestor walk during a move so a corrupted parent
// chain cannot spin the transaction forever.
const moveDepthLimit = 128

// PGRepo implements Repo using Postgres. Sibling uniqueness rides on the
// (owner_id, COALESCE(parent_id, zero-uuid), name) unique index, so two
// concurrent creates of the same name resolve to one winner without an
// application-level check.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new folder. A duplicate sibling name maps to ErrConflict
// and a missing parent to ErrNotFound.
func (r *PGRepo) Create(ctx context.Context, folder Folder) error {
	const query = `
INSERT INTO folders (id, owner_id, parent_id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if folder.ParentID != "" {
		owned, err := r.parentOwned(ctx, r.DB, folder.OwnerID, folder.ParentID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrNotFound
		}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		folder.ID,
		folder.OwnerID,
		nullableString(folder.ParentID),
		folder.Name,
		folder.Description,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	return mapPGError(err, ErrNotFound)
}

// GetByID fetches a folder by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, folderID string) (Folder, error) {
	const query = `
SELECT id, owner_id, parent_id, name, description, created_at, updated_at
FROM folders
WHERE owner_id = $1 AND id = $2
LIMIT 1`
	return scanFolder(r.DB.QueryRowContext(ctx, query, ownerID, folderID))
}

// ListChildren lists the folders directly under parentID, ordered by name.
func (r *PGRepo) ListChildren(ctx context.Context, ownerID, parentID string) ([]Folder, error) {
	const query = `
SELECT id, owner_id, parent_id, name, description, created_at, updated_at
FROM folders
WHERE owner_id = $1
  AND COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'::uuid) =
      COALESCE($2::uuid, '00000000-0000-0000-0000-000000000000'::uuid)
ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, nullableString(parentID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, folder)
	}
	return out, rows.Err()
}

// Update changes a folder's name and description.
func (r *PGRepo) Update(ctx context.Context, ownerID, folderID, name, description string) error {
	const query = `
UPDATE folders
SET name = $1, description = $2, updated_at = $3
WHERE owner_id = $4 AND id = $5`

	res, err := r.DB.ExecContext(ctx, query, name, description, time.Now().UTC(), ownerID, folderID)
	if err != nil {
		return mapPGError(err, ErrNotFound)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Move reparents a folder inside one transaction. The moved row is locked
// first, then the target's ancestor chain is walked to reject cycles before
// the update lands.
func (r *PGRepo) Move(ctx context.Context, ownerID, folderID, newParentID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move tx: %w", err)
	}
	defer tx.Rollback()

	var lockedID string
	err = tx.QueryRowContext(ctx, `
SELECT id FROM folders WHERE owner_id = $1 AND id = $2 FOR UPDATE`, ownerID, folderID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if newParentID != "" {
		if newParentID == folderID {
			return ErrConflict
		}
		owned, err := r.parentOwned(ctx, tx, ownerID, newParentID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrNotFound
		}
		// Walk up from the target parent; hitting the moved folder means
		// the move would create a cycle.
		cursor := newParentID
		for depth := 0; cursor != ""; depth++ {
			if depth >= moveDepthLimit {
				return fmt.Errorf("folder hierarchy too deep")
			}
			var parent sql.NullString
			err := tx.QueryRowContext(ctx, `
SELECT parent_id FROM folders WHERE owner_id = $1 AND id = $2 FOR UPDATE`, ownerID, cursor).Scan(&parent)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNotFound
				}
				return err
			}
			if !parent.Valid {
				break
			}
			if parent.String == folderID {
				return ErrConflict
			}
			cursor = parent.String
		}
	}

	_, err = tx.ExecContext(ctx, `
UPDATE folders SET parent_id = $1, updated_at = $2 WHERE owner_id = $3 AND id = $4`,
		nullableString(newParentID), time.Now().UTC(), ownerID, folderID)
	if err != nil {
		return mapPGError(err, ErrNotFound)
	}
	return tx.Commit()
}

// Delete removes a folder if it has no child folders or files. The FK
// RESTRICT constraints catch anything slipping in between the checks and the
// delete.
func (r *PGRepo) Delete(ctx context.Context, ownerID, folderID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback()

	var lockedID string
	err = tx.QueryRowContext(ctx, `
SELECT id FROM folders WHERE owner_id = $1 AND id = $2 FOR UPDATE`, ownerID, folderID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	var occupied bool
	err = tx.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM folders WHERE parent_id = $1)
    OR EXISTS (SELECT 1 FROM files WHERE folder_id = $1)`, folderID).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied {
		return ErrNotEmpty
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE owner_id = $1 AND id = $2`, ownerID, folderID); err != nil {
		return mapPGError(err, ErrNotEmpty)
	}
	return tx.Commit()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *PGRepo) parentOwned(ctx context.Context, q querier, ownerID, parentID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM folders WHERE owner_id = $1 AND id = $2)`, ownerID, parentID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (Folder, error) {
	var folder Folder
	var parentID sql.NullString
	err := row.Scan(
		&folder.ID,
		&folder.OwnerID,
		&parentID,
		&folder.Name,
		&folder.Description,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Folder{}, ErrNotFound
		}
		return Folder{}, err
	}
	if parentID.Valid {
		folder.ParentID = parentID.String
	}
	return folder, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// mapPGError translates constraint violations into the repo's sentinel
// errors: 23505 (unique) to ErrConflict, 23503 (foreign key) to fkSentinel.
// The FK meaning depends on the statement: a missing parent on insert or
// move, lingering contents on delete.
func mapPGError(err, fkSentinel error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return fkSentinel
		}
	}
	return err
}

var _ Repo = (*PGRepo)(nil)
