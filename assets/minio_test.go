package assets

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

	tests := map[string]string{
		"Team Photo.JPG":         "2024/05/abc-team-photo.jpg",
		"../../etc/passwd":       "2024/05/abc-passwd",
		`C:\Users\me\Logo.png`:   "2024/05/abc-logo.png",
		".png":                   "2024/05/abc-file.png",
		"Café Brochure 2024.pdf": "2024/05/abc-cafe-brochure-2024.pdf",
	}
	for filename, want := range tests {
		assert.Equal(t, want, ObjectKey(at, "abc", filename), filename)
	}
}

func TestNewMinioUploaderRequiresCredentials(t *testing.T) {
	_, err := NewMinioUploader(Config{})
	assert.Error(t, err)

	_, err = NewMinioUploader(Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

func TestNewMinioUploaderPublicURL(t *testing.T) {
	u, err := NewMinioUploader(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "media"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media", u.publicURL)

	u, err = NewMinioUploader(Config{Endpoint: "s3.local", AccessKey: "a", SecretKey: "b", PublicURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", u.publicURL)
	assert.Equal(t, "cms-assets", u.bucket)
}

func TestMinioUploadRoundTrip(t *testing.T) {
	endpoint := os.Getenv("TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_MINIO_ENDPOINT not set")
	}

	u, err := NewMinioUploader(Config{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("TEST_MINIO_SECRET_KEY"),
		Bucket:    "rayob-cms-test",
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, u.EnsureBucket(ctx))

	body := "hello asset"
	asset, err := u.Upload(ctx, "hello.txt", strings.NewReader(body), int64(len(body)), "text/plain")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(asset.Key, "-hello.txt"))
	assert.Equal(t, int64(len(body)), asset.Size)

	obj, err := u.client.GetObject(ctx, u.bucket, asset.Key, minio.GetObjectOptions{})
	require.NoError(t, err)
	defer obj.Close()
	got, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}
