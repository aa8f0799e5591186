package folders

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newFolderMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateMapsUniqueViolationToConflict(t *testing.T) {
	repo, mock := newFolderMock(t)

	mock.ExpectExec("INSERT INTO folders").
		WithArgs("folder-1", "owner-1", sql.NullString{}, "Docs", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), Folder{
		ID:        "folder-1",
		OwnerID:   "owner-1",
		Name:      "Docs",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Create: got %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateChecksParentOwnership(t *testing.T) {
	repo, mock := newFolderMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("owner-1", "parent-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.Create(context.Background(), Folder{
		ID:       "folder-1",
		OwnerID:  "owner-1",
		ParentID: "parent-1",
		Name:     "Docs",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Create: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMoveDetectsCycleInAncestorWalk(t *testing.T) {
	repo, mock := newFolderMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM folders").
		WithArgs("owner-1", "folder-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("folder-a"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("owner-1", "folder-c").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	// folder-c's parent chain leads back to folder-a.
	mock.ExpectQuery("SELECT parent_id FROM folders").
		WithArgs("owner-1", "folder-c").
		WillReturnRows(sqlmock.NewRows([]string{"parent_id"}).AddRow("folder-a"))
	mock.ExpectRollback()

	err := repo.Move(context.Background(), "owner-1", "folder-a", "folder-c")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Move: got %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteRejectsOccupiedFolder(t *testing.T) {
	repo, mock := newFolderMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM folders").
		WithArgs("owner-1", "folder-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("folder-1"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("folder-1").
		WillReturnRows(sqlmock.NewRows([]string{"occupied"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "owner-1", "folder-1")
	if !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("Delete: got %v, want ErrNotEmpty", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDMapsNoRows(t *testing.T) {
	repo, mock := newFolderMock(t)

	mock.ExpectQuery("SELECT id, owner_id, parent_id, name, description, created_at, updated_at").
		WithArgs("owner-1", "missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "owner-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
