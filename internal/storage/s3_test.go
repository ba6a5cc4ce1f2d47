package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3ObjectStorePut(t *testing.T) {
	client := &fakeS3{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := NewS3ObjectStore(client, "media", "", logger)

	err := store.Put(context.Background(), "listings/1/profile.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)
	require.Equal(t, "media", aws.ToString(client.input.Bucket))
	require.Equal(t, "listings/1/profile.png", aws.ToString(client.input.Key))
	require.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	require.Equal(t, "png", client.body)
	require.Equal(t, "https://media.s3.amazonaws.com/listings/1/profile.png", store.URL("listings/1/profile.png"))

	client.err = errors.New("boom")
	require.Error(t, store.Put(context.Background(), "k", "image/png", strings.NewReader(""), 0))
}

func TestS3ObjectStoreCustomBaseURL(t *testing.T) {
	store := NewS3ObjectStore(&fakeS3{}, "media", "https://cdn.example.com/", logrus.New())
	require.Equal(t, "https://cdn.example.com/a.jpg", store.URL("a.jpg"))
}
