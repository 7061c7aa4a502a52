package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/storage/mocks"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "articles.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"articles":[],"metadata":{}}`), 0o600))
	return p
}

func TestNewS3Uploader(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.S3Config
		wantErr string
	}{
		{name: "valid with static credentials", cfg: config.S3Config{Bucket: "b", Region: "eu-north-1",
			AccessKeyID: "key", SecretAccessKey: "secret"}},
		{name: "custom endpoint", cfg: config.S3Config{Bucket: "b", Region: "fra1", Endpoint: "https://fra1.example.com",
			UsePathStyle: true, AccessKeyID: "key", SecretAccessKey: "secret"}},
		{name: "missing bucket", cfg: config.S3Config{Region: "eu-north-1"}, wantErr: "bucket name is required"},
		{name: "missing region", cfg: config.S3Config{Bucket: "b"}, wantErr: "region is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewS3Uploader(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "articles.json", u.key)
			assert.Equal(t, "b", u.bucket)
		})
	}
}

func TestS3Uploader_Upload(t *testing.T) {
	var mu sync.Mutex
	bodies := map[string]string{}
	client := &mocks.ObjectPutterMock{PutObjectFunc: func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		data, err := io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		bodies[aws.ToString(in.Key)] = string(data)
		mu.Unlock()
		return &s3.PutObjectOutput{}, nil
	}}

	u := NewUploader(client, "minepenge", "data/articles.json")
	u.now = func() time.Time { return time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC) }

	require.NoError(t, u.Upload(context.Background(), writeDataset(t)))

	calls := client.PutObjectCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "minepenge", aws.ToString(calls[0].Params.Bucket))
	assert.Equal(t, "data/articles.json", aws.ToString(calls[0].Params.Key))
	assert.Equal(t, "application/json; charset=utf-8", aws.ToString(calls[0].Params.ContentType))
	assert.Equal(t, "archive/2025/06/01/articles.json", aws.ToString(calls[1].Params.Key))
	assert.Equal(t, `{"articles":[],"metadata":{}}`, bodies["data/articles.json"])
	assert.Equal(t, bodies["data/articles.json"], bodies["archive/2025/06/01/articles.json"])
}

func TestS3Uploader_UploadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		client := &mocks.ObjectPutterMock{}
		u := NewUploader(client, "b", "")
		err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read ")
		assert.Empty(t, client.PutObjectCalls())
	})

	t.Run("put fails", func(t *testing.T) {
		client := &mocks.ObjectPutterMock{PutObjectFunc: func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("access denied")
		}}
		u := NewUploader(client, "b", "")
		err := u.Upload(context.Background(), writeDataset(t))
		require.EqualError(t, err, "put s3://b/articles.json: access denied")
		assert.Len(t, client.PutObjectCalls(), 1, "archive copy is skipped")
	})
}

func TestS3Uploader_PathStyleEndpoint(t *testing.T) {
	var mu sync.Mutex
	var requests []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	u, err := NewS3Uploader(context.Background(), config.S3Config{Endpoint: ts.URL, Region: "us-east-1", Bucket: "minepenge",
		Key: "articles.json", AccessKeyID: "key", SecretAccessKey: "secret", UsePathStyle: true})
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, u.Upload(context.Background(), writeDataset(t)))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /minepenge/articles.json", "PUT /minepenge/archive/2025/06/01/articles.json"}, requests)
}
