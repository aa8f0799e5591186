package blob

import (
	"context"
	"errors"
	"io"
	"net/url"
)

// ErrTooLarge reports content that exceeds the configured size limit. The
// check happens before any network call; nothing is committed to the store.
var ErrTooLarge = errors.New("content exceeds size limit")

// PutResult describes a stored object.
type PutResult struct {
	// ExternalID addresses the object within its class namespace.
	ExternalID string
	// URL is the plain (inline) URL of the object.
	URL string
	// ResolvedClass is the class the store actually filed the object under.
	// It may differ from the declared class when content sniffing recognizes
	// the payload; callers must persist this value, not the declared one.
	ResolvedClass Class
	SizeBytes     int64
}

// Store is the contract over the external blob service. Implementations fail
// independently of the metadata store; callers own cross-store consistency.
type Store interface {
	// Put uploads the reader contents. declared is a hint from the caller's
	// mime classification; content larger than maxBytes is rejected with
	// ErrTooLarge before the store is contacted.
	Put(ctx context.Context, ownerID, fileName string, declared Class, r io.Reader, maxBytes int64) (PutResult, error)

	// Delete removes an object. Deleting a nonexistent object is not an
	// error, so retries and compensation paths are idempotent.
	Delete(ctx context.Context, externalID string, class Class) error

	// DownloadURL builds a URL that forces a download with the given
	// filename. It never performs a network call.
	DownloadURL(externalID string, class Class, fileName string) string
}

// AttachmentQuery returns the query string that forces attachment disposition
// with the given filename.
func AttachmentQuery(fileName string) string {
	disposition := `attachment; filename="` + fileName + `"`
	return "response-content-disposition=" + url.QueryEscape(disposition)
}
