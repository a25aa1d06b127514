package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/models"
)

// MinioStore keeps profile images and their thumbnails in a bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	log    zerolog.Logger
}

func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, log zerolog.Logger) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: bucket, log: log}, nil
}

// Put uploads the image and, when it decodes, a thumbnail variant.
func (s *MinioStore) Put(ctx context.Context, name string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", name, err)
	}

	thumb, thumbType, err := thumbnail(data, name)
	if err != nil {
		s.log.Debug().Err(err).Str("object", name).Msg("thumbnail skipped")
		return nil
	}
	thumbName := ThumbnailName(name)
	_, err = s.client.PutObject(ctx, s.bucket, thumbName, bytes.NewReader(thumb), int64(len(thumb)), minio.PutObjectOptions{
		ContentType: thumbType,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("object", thumbName).Msg("thumbnail upload failed")
	}
	return nil
}

// Open streams an object. Missing objects yield ErrNotFound.
func (s *MinioStore) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("minio get %s: %w", name, err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", fmt.Errorf("image %s: %w", name, models.ErrNotFound)
		}
		return nil, "", fmt.Errorf("minio stat %s: %w", name, err)
	}
	return obj, info.ContentType, nil
}

// Ping checks the bucket is reachable.
func (s *MinioStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
