package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"opsboard/pkg/types"

	"github.com/minio/minio-go/v7"
)

// MinioStorage targets a self-hosted MinIO deployment.
type MinioStorage struct {
	client     *minio.Client
	bucketName string
	endpoint   string
	useSSL     bool
}

func NewMinioStorage(client *minio.Client, bucketName, endpoint string, useSSL bool) *MinioStorage {
	return &MinioStorage{
		client:     client,
		bucketName: bucketName,
		endpoint:   endpoint,
		useSSL:     useSSL,
	}
}

func (s *MinioStorage) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (*types.UploadedMedia, error) {

	_, err := s.client.PutObject(ctx, s.bucketName, objectPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object to minio: %w", err)
	}

	return &types.UploadedMedia{
		URL:      s.PublicURL(objectPath),
		Path:     objectPath,
		Filename: path.Base(objectPath),
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *MinioStorage) Delete(ctx context.Context, objectPath string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectPath, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object from minio: %w", err)
	}

	return nil
}

func (s *MinioStorage) PublicURL(objectPath string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucketName, objectPath)
}
