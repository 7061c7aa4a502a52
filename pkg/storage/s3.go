// Package storage uploads the dataset file to S3 compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-pkgz/lgr"

	"github.com/minepenge/minepenge/pkg/config"
)

//go:generate moq -out mocks/object_putter.go -pkg mocks -skip-ensure -fmt goimports . ObjectPutter

// ObjectPutter is the part of s3 client used by the uploader
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader puts the dataset under a fixed key and a dated archive copy
type S3Uploader struct {
	client ObjectPutter
	bucket string
	key    string
	now    func() time.Time
}

// NewS3Uploader makes an uploader from config. Static credentials are used if set,
// otherwise the default aws credentials chain.
func NewS3Uploader(ctx context.Context, cfg config.S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewUploader(client, cfg.Bucket, cfg.Key), nil
}

// NewUploader makes an uploader over the given client
func NewUploader(client ObjectPutter, bucket, key string) *S3Uploader {
	if key == "" {
		key = "articles.json"
	}
	return &S3Uploader{client: client, bucket: bucket, key: key, now: time.Now}
}

// Upload reads the file and puts it to the bucket
func (u *S3Uploader) Upload(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // dataset path comes from config
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	if err := u.put(ctx, u.key, data); err != nil {
		return err
	}

	// archive/YYYY/MM/DD/articles.json keeps one copy per day
	archiveKey := path.Join("archive", u.now().UTC().Format("2006/01/02"), path.Base(u.key))
	if err := u.put(ctx, archiveKey, data); err != nil {
		return err
	}

	lgr.Printf("[INFO] uploaded %s to s3://%s/%s (%d bytes)", filePath, u.bucket, u.key, len(data))
	return nil
}

func (u *S3Uploader) put(ctx context.Context, key string, data []byte) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}
