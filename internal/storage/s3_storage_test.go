package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_ObjectURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		key     string
		want    string
	}{
		{"CDN base URL", "https://cdn.foodhub.io/", "catalogs/1/catalog.json", "https://cdn.foodhub.io/catalogs/1/catalog.json"},
		{"S3 direct", "", "catalogs/1/catalog.json", "https://menu-bucket.s3.ap-northeast-2.amazonaws.com/catalogs/1/catalog.json"},
		{"Leading slash in key", "https://cdn.foodhub.io", "/a.json", "https://cdn.foodhub.io/a.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newS3Storage(&fakePutter{}, "menu-bucket", "ap-northeast-2", tt.baseURL)
			assert.Equal(t, tt.want, s.ObjectURL(tt.key))
		})
	}
}

func TestS3Storage_PutJSON(t *testing.T) {
	putter := &fakePutter{}
	s := newS3Storage(putter, "menu-bucket", "ap-northeast-2", "")

	url, err := s.PutJSON(context.Background(), "catalogs/1/catalog.json", map[string]int{"id": 1})
	require.NoError(t, err)

	assert.Equal(t, "https://menu-bucket.s3.ap-northeast-2.amazonaws.com/catalogs/1/catalog.json", url)
	assert.Equal(t, "menu-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "catalogs/1/catalog.json", aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.JSONEq(t, `{"id":1}`, string(putter.body))
}

func TestS3Storage_PutJSONErrors(t *testing.T) {
	s := newS3Storage(&fakePutter{err: errors.New("access denied")}, "menu-bucket", "ap-northeast-2", "")
	_, err := s.PutJSON(context.Background(), "k.json", map[string]int{"id": 1})
	assert.Error(t, err)

	_, err = s.PutJSON(context.Background(), "k.json", make(chan int))
	assert.Error(t, err)
}
