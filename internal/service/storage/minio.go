package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/config"
)

// MinIOStorage persists attachments in an S3-compatible bucket under
// date-partitioned keys.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

func NewMinIOStorage(cfg config.MinIOConfig, logger zerolog.Logger) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	logger.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Msg("Connected to MinIO")

	return s, nil
}

func (s *MinIOStorage) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	key := DatePartitionedKey(UniqueFileName(fileName))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to storage: %w", err)
	}

	s.logger.Info().
		Str("key", key).
		Int("size", len(data)).
		Msg("File stored in MinIO")

	return fmt.Sprintf("/%s/%s", s.bucket, key), nil
}

func (s *MinIOStorage) Delete(ctx context.Context, fileURL string) error {
	key := strings.TrimPrefix(fileURL, "/"+s.bucket+"/")
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
