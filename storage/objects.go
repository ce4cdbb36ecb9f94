package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Objects *ObjectStore

// ObjectStore wraps the S3-compatible bucket that holds verification
// documents. Documents are sensitive, so reads only ever happen through
// short-lived presigned URLs.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func InitializeObjectStore() *ObjectStore {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		log.Panic("S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: os.Getenv("S3_USE_SSL") != "false",
	})
	if err != nil {
		log.Panic("error creating object storage client: " + err.Error())
	}

	Objects = &ObjectStore{client: client, bucket: bucket}
	log.Println("🔧 Object storage initialized with endpoint:", endpoint)
	return Objects
}

// Upload durably persists a blob under the given key. It returns only after
// the object is stored, so callers may safely reference the key afterwards.
func (s *ObjectStore) Upload(ctx context.Context, key string, blob []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(blob), int64(len(blob)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("uploading object %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

// SignedURL returns a presigned GET URL for a stored document. Expiry should
// be short; moderators fetch these on demand.
func (s *ObjectStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presigning object %s: %w", key, err)
	}
	return u.String(), nil
}
