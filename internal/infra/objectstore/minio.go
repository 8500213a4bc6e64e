package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
)

const crc32MetaKey = "x-amz-meta-crc32"

// MinIOStore implements ObjectStore against an S3-compatible MinIO bucket.
type MinIOStore struct {
	client     *minio.Client
	bucketName string
}

var _ ObjectStore = (*MinIOStore)(nil)

// NewMinIOStore dials MinIO and ensures the configured bucket exists with a
// public-read policy, mirroring the teacher's bucket-bootstrap sequence.
func NewMinIOStore(cfg *config.StorageConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinIOStore{client: client, bucketName: cfg.BucketName}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}

		policy := fmt.Sprintf(`{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}]
		}`, cfg.BucketName)

		if err := client.SetBucketPolicy(ctx, cfg.BucketName, policy); err != nil {
			return nil, fmt.Errorf("failed to set bucket policy: %w", err)
		}
	}

	return store, nil
}

func (s *MinIOStore) Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) error {
	putOpts := minio.PutObjectOptions{ContentType: opts.ContentType}
	if opts.CRC32Base64 != "" {
		putOpts.UserMetadata = map[string]string{crc32MetaKey: opts.CRC32Base64}
	}

	if _, err := s.client.PutObject(ctx, s.bucketName, key, body, size, putOpts); err != nil {
		return apperrors.Transport("failed to store object", err)
	}
	return nil
}

func (s *MinIOStore) Get(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", 0, apperrors.Transport("failed to open object", err)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, "", 0, apperrors.NotFound(fmt.Sprintf("object %q not found", key))
		}
		return nil, "", 0, apperrors.Transport("failed to stat object", err)
	}

	return obj, info.ContentType, info.Size, nil
}

func (s *MinIOStore) GetChecksums(ctx context.Context, key string) (*Checksums, error) {
	info, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, apperrors.NotFound(fmt.Sprintf("object %q not found", key))
		}
		return nil, apperrors.Transport("failed to stat object", err)
	}

	checksums := &Checksums{}
	if v, ok := info.UserMetadata[crc32MetaKey]; ok && v != "" {
		checksums.CRC32 = &v
	} else if v, ok := info.UserMetadata["X-Amz-Meta-Crc32"]; ok && v != "" {
		// MinIO canonicalizes user metadata header casing on round-trip.
		checksums.CRC32 = &v
	}
	return checksums, nil
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Transport("failed to delete object", err)
	}
	return nil
}

func (s *MinIOStore) ListPrefix(ctx context.Context, prefix string) ([]ObjectEntry, error) {
	var entries []ObjectEntry

	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, apperrors.Transport("failed to list objects", object.Err)
		}
		entries = append(entries, ObjectEntry{Key: object.Key, Size: object.Size})
	}

	return entries, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}
