// Package assets stores uploaded binary files in S3-compatible object
// storage and returns a public URL for each one.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"rayob-cms/slug"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Asset struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (*Asset, error)
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base URL objects are served from. Defaults to the
	// endpoint and bucket.
	PublicURL string
}

type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewMinioUploader(cfg Config) (*MinioUploader, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("minio access key and secret key are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "cms-assets"
	}
	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, bucket)
	}

	return &MinioUploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}, nil
}

func (u *MinioUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (u *MinioUploader) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (*Asset, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := ObjectKey(u.now(), uuid.NewString(), filename)
	info, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	return &Asset{
		Key:         key,
		URL:         u.publicURL + "/" + key,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}

// ObjectKey builds a collision-free key such as
// "2024/05/3f2c...-team-photo.jpg" from the upload time, a unique id and
// the client's filename.
func ObjectKey(at time.Time, id, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := slug.Slugify(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s/%s-%s%s", at.UTC().Format("2006/01"), id, name, ext)
}
