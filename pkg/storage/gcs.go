package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

var (
	_ Backend      = (*GCSStorage)(nil)
	_ DirectLinker = (*GCSStorage)(nil)
)

// GCSStorage keeps attachment blobs in a Google Cloud Storage bucket.
type GCSStorage struct {
	client     *gcs.Client
	bucketName string
	prefix     string
}

// NewGCSStorage creates a bucket-backed store. Without a credentials file the
// default application credentials are used.
func NewGCSStorage(ctx context.Context, bucketName, credentialsPath, prefix string) (*GCSStorage, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("gcs bucket name required")
	}

	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStorage{
		client:     client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}, nil
}

// Save streams r into the object addressed by key.
func (s *GCSStorage) Save(ctx context.Context, key string, r io.Reader, contentType string) (Object, error) {
	writer := s.object(key).NewWriter(ctx)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	writer.ContentType = contentType

	written, err := io.Copy(writer, r)
	if err != nil {
		_ = writer.Close()
		return Object{}, fmt.Errorf("failed to upload object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to close writer: %w", err)
	}
	return Object{Key: key, Size: written, ContentType: contentType}, nil
}

// Open returns a reader over the object contents.
func (s *GCSStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return reader, nil
}

// Delete removes the object; a missing object is not an error.
func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	if err := s.object(key).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// SignedURL issues a V4 signed GET URL for direct bucket downloads.
func (s *GCSStorage) SignedURL(key string, ttl time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	}
	url, err := s.client.Bucket(s.bucketName).SignedURL(s.objectName(key), opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url, nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) object(key string) *gcs.ObjectHandle {
	return s.client.Bucket(s.bucketName).Object(s.objectName(key))
}

func (s *GCSStorage) objectName(key string) string {
	key = strings.TrimPrefix(key, fmt.Sprintf("gs://%s/", s.bucketName))
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" || strings.HasPrefix(key, s.prefix+"/") {
		return key
	}
	return s.prefix + "/" + key
}
