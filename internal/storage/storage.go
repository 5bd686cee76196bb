package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage is the boundary used by handlers for image objects.
type ObjectStorage interface {
	Upload(ctx context.Context, uid, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, uid, key string) error
}

// MinioStorage stores car images in a MinIO bucket under images/{uid}/{key}.
// The path convention is load-bearing: deletion and per-user access rules
// depend on it.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.Bucket, err)
		}
		log.Println("[STORAGE] [INFO] bucket already exists:", cfg.Bucket)
	} else {
		log.Println("[STORAGE] [INFO] bucket created:", cfg.Bucket)
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket}, nil
}

// ObjectPath builds the storage key for an image owned by uid.
func ObjectPath(uid, key string) string {
	return "images/" + uid + "/" + key
}

func (s *MinioStorage) Upload(ctx context.Context, uid, key string, reader io.Reader, size int64, contentType string) (string, error) {
	objectKey := ObjectPath(uid, key)

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("[STORAGE] [ERROR] upload failed bucket=%s key=%s: %v", s.bucket, objectKey, err)
		return "", fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}

	log.Printf("[STORAGE] [INFO] uploaded key=%s size=%d etag=%s", info.Key, info.Size, info.ETag)

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey), nil
}

func (s *MinioStorage) Delete(ctx context.Context, uid, key string) error {
	objectKey := ObjectPath(uid, key)

	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("[STORAGE] [ERROR] delete failed bucket=%s key=%s: %v", s.bucket, objectKey, err)
		return fmt.Errorf("failed to delete object %s: %w", objectKey, err)
	}

	log.Println("[STORAGE] [INFO] deleted key:", objectKey)
	return nil
}
