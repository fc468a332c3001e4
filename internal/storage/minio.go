package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configures the S3-compatible backend.
type MinioOptions struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/uploads"
	UseSSL     bool
}

// MinioStorage implements BlobStore using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists with a public-read
// policy, and returns a ready-to-use MinioStorage.
func NewMinioStorage(ctx context.Context, opts MinioOptions) (*MinioStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", opts.Bucket, err)
		}
		log.Infof("storage: created bucket %q", opts.Bucket)
	}

	if err := client.SetBucketPolicy(ctx, opts.Bucket, publicReadPolicy(opts.Bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: strings.TrimRight(opts.PublicBase, "/"),
	}, nil
}

// Name implements BlobStore.
func (s *MinioStorage) Name() string { return "minio" }

// Store puts body under a fresh key inside folder. Every call mints a new key, so identical
// payloads never collapse into one object.
func (s *MinioStorage) Store(ctx context.Context, name string, body io.Reader, size int64, folder string) (*ObjectDescriptor, error) {
	id := uuid.NewString()
	stem, ext := splitName(name)
	key := objectKey(folder, id, ext)

	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		if isMinioAuthError(err) {
			return nil, fmt.Errorf("put object %q: %w: %v", key, ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	url := s.PublicURL(key)
	return &ObjectDescriptor{
		AssetID:          id,
		PublicID:         key,
		ResourceType:     ResourceTypeRaw,
		Type:             "upload",
		Format:           ext,
		Bytes:            info.Size,
		URL:              url,
		SecureURL:        secureURL(url),
		Folder:           folder,
		OriginalFilename: stem,
		ETag:             info.ETag,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/uploads/encrypted_uploads/<uuid>.bin"
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// objectKey builds "<folder>/<id>.<ext>". The client filename only contributes its extension.
func objectKey(folder, id, ext string) string {
	if ext != "" {
		id += "." + ext
	}
	return path.Join(strings.Trim(folder, "/"), id)
}

func secureURL(url string) string {
	if strings.HasPrefix(url, "https://") {
		return url
	}
	return ""
}

func isMinioAuthError(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return true
	}
	return false
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
