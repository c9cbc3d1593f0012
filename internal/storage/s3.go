package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"opsboard/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage writes objects to an S3 bucket configured for public reads.
type S3Storage struct {
	client     *s3.Client
	bucketName string
	region     string
}

func NewS3Storage(client *s3.Client, bucketName, region string) *S3Storage {
	return &S3Storage{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}
}

func (s *S3Storage) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (*types.UploadedMedia, error) {

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectPath),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object to s3: %w", err)
	}

	return &types.UploadedMedia{
		URL:      s.PublicURL(objectPath),
		Path:     objectPath,
		Filename: path.Base(objectPath),
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, objectPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from s3: %w", err)
	}

	return nil
}

func (s *S3Storage) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, objectPath)
}
