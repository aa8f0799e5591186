package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"fileuploader-backend/internal/queue"
	"fileuploader-backend/internal/shared/storage/blob"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingCoordinates indicates a message without blob coordinates.
type ErrMissingCoordinates struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingCoordinates) Error() string { return "missing blob coordinates" }

// ErrReclaim indicates the blob delete failed after successful parsing. The
// caller leaves the message on the queue so it is redelivered.
type ErrReclaim struct {
	ExternalID string
	RequestID  string
	Err        error
}

func (e ErrReclaim) Error() string {
	if e.Err == nil {
		return "reclaim blob"
	}
	return "reclaim blob: " + e.Err.Error()
}

func (e ErrReclaim) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ExternalID) == "" || strings.TrimSpace(msg.StorageClass) == "" {
		return msg, meta, ErrMissingCoordinates{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses a reclaim order and deletes the blob it names. The
// blob store's delete is idempotent, so a redelivered message for an already
// reclaimed blob succeeds harmlessly.
func HandleMessage(ctx context.Context, store blob.Store, body string) error {
	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	class, err := blob.ParseClass(msg.StorageClass)
	if err != nil {
		return ErrDecode{Meta: ComputeMeta(body), Err: err}
	}

	if err := store.Delete(ctx, msg.ExternalID, class); err != nil {
		return ErrReclaim{ExternalID: msg.ExternalID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
