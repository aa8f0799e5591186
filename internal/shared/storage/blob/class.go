package blob

import (
	"fmt"
	"strings"
)

// Class is the blob store's categorization of content. It governs how an
// object is addressed, so the class chosen at upload time must be persisted
// and reused verbatim for download URLs and deletes. Re-deriving it from the
// mime type later breaks addressing when the two disagree.
type Class string

const (
	ClassImage Class = "image"
	ClassVideo Class = "video"
	ClassRaw   Class = "raw"
)

// Classify maps a declared mime type to a storage class. Audio, documents,
// text, and archives all land in ClassRaw.
func Classify(mimeType string) Class {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return ClassImage
	case strings.HasPrefix(mt, "video/"):
		return ClassVideo
	default:
		return ClassRaw
	}
}

// ParseClass validates a persisted class value.
func ParseClass(raw string) (Class, error) {
	switch Class(strings.ToLower(strings.TrimSpace(raw))) {
	case ClassImage:
		return ClassImage, nil
	case ClassVideo:
		return ClassVideo, nil
	case ClassRaw:
		return ClassRaw, nil
	default:
		return "", fmt.Errorf("unknown storage class %q", raw)
	}
}

// Prefix returns the key namespace for objects of this class.
func (c Class) Prefix() string {
	if c == "" {
		return string(ClassRaw)
	}
	return string(c)
}

func (c Class) String() string { return string(c) }
