package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"fileuploader-backend/internal/shared/storage/blob"
	"fileuploader-backend/internal/shared/util"
)

const urlBase = "/local-blobs"

// Store implements blob.Store using the local filesystem. It mirrors the S3
// layout (class prefix, then owner namespace) so dev and prod address objects
// the same way.
type Store struct {
	baseDir string
}

// New creates a new local blob store rooted at baseDir.
func New(baseDir string) blob.Store {
	return &Store{baseDir: baseDir}
}

// Put writes the reader to disk under the resolved class namespace.
func (s *Store) Put(ctx context.Context, ownerID, fileName string, declared blob.Class, r io.Reader, maxBytes int64) (blob.PutResult, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return blob.PutResult{}, fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return blob.PutResult{}, err
	}

	content, err := readLimited(r, maxBytes)
	if err != nil {
		return blob.PutResult{}, err
	}

	resolved := resolveClass(declared, content)
	externalID := path.Join(util.OwnerKey(ownerID), randomID()+"_"+sanitizedName)
	objectKey := path.Join(resolved.Prefix(), externalID)

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return blob.PutResult{}, fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return blob.PutResult{}, fmt.Errorf("write object: %w", err)
	}

	return blob.PutResult{
		ExternalID:    externalID,
		URL:           urlBase + "/" + objectKey,
		ResolvedClass: resolved,
		SizeBytes:     int64(len(content)),
	}, nil
}

// Delete removes a stored object; a missing object is not an error.
func (s *Store) Delete(ctx context.Context, externalID string, class blob.Class) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	objectKey, err := safeKey(externalID, class)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(objectKey))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// DownloadURL builds an attachment URL for a stored object.
func (s *Store) DownloadURL(externalID string, class blob.Class, fileName string) string {
	return urlBase + "/" + path.Join(class.Prefix(), externalID) + "?" + blob.AttachmentQuery(fileName)
}

// Open reads back a stored object; used by the dev file server and tests.
func (s *Store) Open(externalID string, class blob.Class) (io.ReadCloser, error) {
	objectKey, err := safeKey(externalID, class)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.baseDir, filepath.FromSlash(objectKey)))
}

func safeKey(externalID string, class blob.Class) (string, error) {
	clean := path.Clean(path.Join(class.Prefix(), externalID))
	if strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return "", fmt.Errorf("invalid external id")
	}
	return clean, nil
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		return content, nil
	}
	content, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(len(content)) > maxBytes {
		return nil, blob.ErrTooLarge
	}
	return content, nil
}

func resolveClass(declared blob.Class, content []byte) blob.Class {
	sniffLen := len(content)
	if sniffLen > 512 {
		sniffLen = 512
	}
	sniffed := http.DetectContentType(content[:sniffLen])
	if sniffed == "application/octet-stream" {
		if declared == "" {
			return blob.ClassRaw
		}
		return declared
	}
	return blob.Classify(sniffed)
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

var _ blob.Store = (*Store)(nil)
