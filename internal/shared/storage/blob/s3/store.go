package s3

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"fileuploader-backend/internal/shared/storage/blob"
	"fileuploader-backend/internal/shared/util"
)

// Store implements blob.Store using Amazon S3. Objects are keyed by storage
// class, then owner namespace, so the persisted class is required to address
// them again.
type Store struct {
	client        *s3.Client
	bucket        string
	prefix        string
	publicBaseURL string
	kmsKeyID      string
}

// New creates a new S3-backed blob store.
func New(ctx context.Context, region, bucket, prefix, publicBaseURL, kmsKeyID string) (blob.Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}

	return &Store{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		prefix:        normalizePrefix(prefix),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		kmsKeyID:      strings.TrimSpace(kmsKeyID),
	}, nil
}

// Put uploads the reader contents under the resolved class namespace. The
// payload is buffered so the size limit is enforced before S3 is contacted.
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
	mimeType := http.DetectContentType(sniff(content))

	externalID := path.Join(util.OwnerKey(ownerID), randomID()+"_"+sanitizedName)
	objectKey := s.objectKey(externalID, resolved)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mimeType),
	}
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.kmsKeyID)
	} else {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return blob.PutResult{}, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}

	return blob.PutResult{
		ExternalID:    externalID,
		URL:           s.publicBaseURL + "/" + objectKey,
		ResolvedClass: resolved,
		SizeBytes:     int64(len(content)),
	}, nil
}

// Delete removes a stored object. S3 delete is idempotent, so a missing
// object is not an error.
func (s *Store) Delete(ctx context.Context, externalID string, class blob.Class) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	objectKey := s.objectKey(externalID, class)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		return fmt.Errorf("s3 delete object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return nil
}

// DownloadURL builds an attachment URL without contacting S3.
func (s *Store) DownloadURL(externalID string, class blob.Class, fileName string) string {
	return s.publicBaseURL + "/" + s.objectKey(externalID, class) + "?" + blob.AttachmentQuery(fileName)
}

func (s *Store) objectKey(externalID string, class blob.Class) string {
	return applyPrefix(s.prefix, path.Join(class.Prefix(), externalID))
}

// readLimited buffers up to maxBytes of content, failing with ErrTooLarge if
// the reader yields more.
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

// resolveClass prefers the class recognized from content over the declared
// hint; unrecognizable content keeps the declared class.
func resolveClass(declared blob.Class, content []byte) blob.Class {
	sniffed := http.DetectContentType(sniff(content))
	if sniffed == "application/octet-stream" {
		if declared == "" {
			return blob.ClassRaw
		}
		return declared
	}
	return blob.Classify(sniffed)
}

func sniff(content []byte) []byte {
	if len(content) > 512 {
		return content[:512]
	}
	return content
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

var _ blob.Store = (*Store)(nil)
