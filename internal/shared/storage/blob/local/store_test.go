package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"fileuploader-backend/internal/shared/storage/blob"
)

func TestPutResolvesClassFromContent(t *testing.T) {
	store := New(t.TempDir())

	// Tiny valid PNG header; declared raw, but content sniffing wins.
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 32)...)
	res, err := store.Put(context.Background(), "owner-1", "pic.png", blob.ClassRaw, bytes.NewReader(png), 1<<20)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if res.ResolvedClass != blob.ClassImage {
		t.Fatalf("resolved class = %q, want image", res.ResolvedClass)
	}
	if res.SizeBytes != int64(len(png)) {
		t.Fatalf("size = %d, want %d", res.SizeBytes, len(png))
	}
	if res.ExternalID == "" || !strings.Contains(res.URL, res.ExternalID) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPutRejectsOversizeBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.Put(context.Background(), "owner-1", "big.bin", blob.ClassRaw, bytes.NewReader(make([]byte, 2048)), 1024)
	if err != blob.ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestPutOpenDeleteRoundTrip(t *testing.T) {
	store := New(t.TempDir()).(*Store)

	content := []byte("%PDF-1.4 test document")
	res, err := store.Put(context.Background(), "owner-1", "report.pdf", blob.Classify("application/pdf"), bytes.NewReader(content), 1<<20)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if res.ResolvedClass != blob.ClassRaw {
		t.Fatalf("resolved class = %q, want raw", res.ResolvedClass)
	}

	rc, err := store.Open(res.ExternalID, res.ResolvedClass)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch")
	}

	if err := store.Delete(context.Background(), res.ExternalID, res.ResolvedClass); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Second delete is a no-op, not an error.
	if err := store.Delete(context.Background(), res.ExternalID, res.ResolvedClass); err != nil {
		t.Fatalf("Delete (second): %v", err)
	}
	if _, err := store.Open(res.ExternalID, res.ResolvedClass); err == nil {
		t.Fatal("expected object to be gone")
	}
}

func TestDownloadURLForcesAttachment(t *testing.T) {
	store := New(t.TempDir())

	url := store.DownloadURL("abc/123_report.pdf", blob.ClassRaw, "report.pdf")
	if !strings.Contains(url, "attachment") {
		t.Fatalf("expected attachment hint in %q", url)
	}
	if !strings.Contains(url, "report.pdf") {
		t.Fatalf("expected filename in %q", url)
	}
	if !strings.Contains(url, "/raw/") {
		t.Fatalf("expected class prefix in %q", url)
	}
}
