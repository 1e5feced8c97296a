package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store keeps the document as one object in an S3-compatible bucket.
// The bucket is created on the first Save if it does not exist.
type S3Store struct {
	client *minio.Client
	bucket string
	object string
	region string

	bucketReady bool
}

// NewS3Store creates an S3-backed store. The client connects lazily.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}
	object, err := documentKey(cfg.Object, DefaultPath)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, object: object, region: cfg.Region}, nil
}

// Load downloads the object. A missing bucket or object is ErrNotFound.
func (s *S3Store) Load(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.loadError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.loadError(err)
	}
	return data, nil
}

func (s *S3Store) loadError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrNotFound
	}
	return fmt.Errorf("s3 get %s/%s: %w", s.bucket, s.object, err)
}

// Save uploads the document, replacing the object.
func (s *S3Store) Save(ctx context.Context, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		s.object,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", s.bucket, s.object, err)
	}
	return nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	if s.bucketReady {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	s.bucketReady = true
	return nil
}

// Close does nothing; the MinIO client holds no persistent connections
// that need explicit release.
func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) String() string {
	return fmt.Sprintf("s3:%s/%s", s.bucket, s.object)
}

var _ Store = (*S3Store)(nil)
