package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	body    string
	deletes []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3BlobStorePut(t *testing.T) {
	f := &fakeS3{}
	store := NewS3BlobStore(f, "studio-files", "eu-west-1", "")

	url, err := store.Put(context.Background(), "deliverables/p-1/d-1/0-plan a.pdf", "application/pdf", strings.NewReader("pdf"), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://studio-files.s3.eu-west-1.amazonaws.com/deliverables/p-1/d-1/0-plan%20a.pdf", url)
	require.Len(t, f.puts, 1)
	assert.Equal(t, "application/pdf", aws.ToString(f.puts[0].ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(f.puts[0].ContentLength))
	assert.Equal(t, "pdf", f.body)
}

func TestS3BlobStoreCustomEndpointURL(t *testing.T) {
	store := NewS3BlobStore(&fakeS3{}, "files", "us-east-1", "http://localhost:9000/")
	assert.Equal(t, "http://localhost:9000/files/a/b.png", store.ObjectURL("a/b.png"))
}

func TestS3BlobStorePutError(t *testing.T) {
	store := NewS3BlobStore(&fakeS3{putErr: errors.New("boom")}, "files", "us-east-1", "")
	_, err := store.Put(context.Background(), "k", "", strings.NewReader(""), 0)
	assert.Error(t, err)
}

func TestS3BlobStoreDelete(t *testing.T) {
	f := &fakeS3{}
	store := NewS3BlobStore(f, "files", "us-east-1", "")
	require.NoError(t, store.Delete(context.Background(), "a/b"))
	assert.Equal(t, []string{"a/b"}, f.deletes)
}
