package minio_storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"CourseCanvas/internal/app_errors"
)

// WidgetMediaStorage holds uploads made from widget edit forms (image
// widgets, course logos). Size and MIME checks here are hard limits: an
// oversized or non-image upload is rejected with an error, never truncated.
type WidgetMediaStorage struct {
	client         *minio.Client
	bucket         string
	presignTTL     time.Duration
	maxUploadBytes int64
}

func NewWidgetMediaStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket string, presignTTL time.Duration, maxUploadBytes int64) (*WidgetMediaStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", bucket, err)
		}
	}

	return &WidgetMediaStorage{
		client:         client,
		bucket:         bucket,
		presignTTL:     presignTTL,
		maxUploadBytes: maxUploadBytes,
	}, nil
}

// UploadImage stores one image for a widget and returns its object key.
func (s *WidgetMediaStorage) UploadImage(ctx context.Context, courseID uuid.UUID, widgetID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.maxUploadBytes > 0 && size > s.maxUploadBytes {
		return "", app_errors.ErrFileSize
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", app_errors.ErrNotImage
	}

	objectKey := fmt.Sprintf("courses/%s/widgets/%s%s", courseID.String(), widgetID, ext)
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

// UploadLogo stores a course logo.
func (s *WidgetMediaStorage) UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.UploadImage(ctx, courseID, "logo", filename, reader, size, contentType)
}

// GetImageURL returns a presigned GET URL for an object key.
func (s *WidgetMediaStorage) GetImageURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", app_errors.ErrImageNotFound
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.presignTTL, make(url.Values))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *WidgetMediaStorage) DeleteImage(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
