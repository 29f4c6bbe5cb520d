package store

import (
	"context"
	"io"
	"time"

	minio "github.com/minio/minio-go/v7"
)

// MinIOObjects implements Objects on one MinIO bucket.
type MinIOObjects struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

// NewMinIOObjects makes sure the bucket exists
func NewMinIOObjects(ctx context.Context, client *minio.Client, bucket string, region string, urlExpiry time.Duration) (*MinIOObjects, error) {

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &MinIOObjects{client: client, bucket: bucket, urlExpiry: urlExpiry}, nil
}

func (m *MinIOObjects) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string, progress io.Reader) (int64, error) {
	info, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		Progress:    progress,
	})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (m *MinIOObjects) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects := []ObjectInfo{}
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, ObjectInfo{Name: object.Key, Size: object.Size})
	}
	return objects, nil
}

func (m *MinIOObjects) URL(ctx context.Context, name string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, name, m.urlExpiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
