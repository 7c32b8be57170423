package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of *s3.Client the blob store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

type S3BlobStore struct {
	client  S3API
	bucket  string
	baseURL string
}

var _ interfaces.IBlobStore = (*S3BlobStore)(nil)

// NewS3Client builds an S3 client. A custom endpoint (MinIO, LocalStack) switches to
// path-style addressing.
func NewS3Client(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// NewS3BlobStore returns a store writing to bucket. Object URLs are derived from endpoint when
// set, and from the regional virtual-hosted form otherwise.
func NewS3BlobStore(client S3API, bucket, region, endpoint string) *S3BlobStore {
	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	if endpoint != "" {
		base = strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	return &S3BlobStore{client: client, bucket: bucket, baseURL: base}
}

func (s *S3BlobStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		log.Printf("[storage][s3] put failed key=%s err=%v", key, err)
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.ObjectURL(key), nil
}

func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// ObjectURL returns the public URL of key, escaping each path segment.
func (s *S3BlobStore) ObjectURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(parts, "/")
}
