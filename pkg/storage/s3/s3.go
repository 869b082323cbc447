package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/williamokano/backupgen/pkg/storage"
)

// API is the subset of the S3 client the backend uses
type API interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Backend struct {
	name     string
	client   API
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

func init() {
	storage.RegisterBackend("s3", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(ctx, cfg)
	})
}

// New creates a new S3 backend and checks the bucket is reachable
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	s3Cfg, err := parseConfig(cfg)
	if err != nil {
		return nil, err
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(s3Cfg.Region)}
	if s3Cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3Cfg.AccessKeyID, s3Cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Cfg.Endpoint)
		}
		o.UsePathStyle = s3Cfg.ForcePathStyle
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s3Cfg.Bucket),
	})
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "connection test", storage.ErrConnFailed)
	}

	return NewWithClient(cfg.Name, client, s3Cfg.Bucket, s3Cfg.Prefix), nil
}

// NewWithClient builds a backend around an existing client
func NewWithClient(name string, client API, bucket, prefix string) *Backend {
	return &Backend{
		name:     name,
		client:   client,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		uploader: manager.NewUploader(client),
	}
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "s3" }

func (b *Backend) key(p string) string {
	return path.Join(b.prefix, p)
}

// Write uploads content as one object
func (b *Backend) Write(ctx context.Context, destPath string, content []byte) error {
	return storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(b.bucket),
			Key:         aws.String(b.key(destPath)),
			Body:        bytes.NewReader(content),
			ContentType: aws.String("text/plain; charset=utf-8"),
		})
		if err != nil {
			return storage.WrapError(b.name, "upload", classify(err))
		}
		return nil
	})
}

// Delete removes an object from S3
func (b *Backend) Delete(ctx context.Context, objectPath string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(objectPath)),
	})
	if err != nil {
		return storage.WrapError(b.name, "delete", classify(err))
	}
	return nil
}

// List returns objects matching the pattern
func (b *Backend) List(ctx context.Context, pattern string) ([]storage.FileInfo, error) {
	listPrefix := b.key(extractPrefix(pattern))
	if strings.HasSuffix(extractPrefix(pattern), "/") {
		listPrefix += "/"
	}

	var files []storage.FileInfo
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(listPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storage.WrapError(b.name, "list", classify(err))
		}

		for _, obj := range page.Contents {
			relPath := strings.TrimPrefix(aws.ToString(obj.Key), b.prefix)
			relPath = strings.TrimPrefix(relPath, "/")

			if ok, _ := path.Match(pattern, relPath); !ok {
				continue
			}

			files = append(files, storage.FileInfo{
				Path:    relPath,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Exists checks if an object exists
func (b *Backend) Exists(ctx context.Context, objectPath string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(objectPath)),
	})
	if err != nil {
		err = classify(err)
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, storage.WrapError(b.name, "exists", err)
	}
	return true, nil
}

// Close is a no-op for S3
func (b *Backend) Close() error {
	return nil
}

// classify maps SDK errors onto the storage sentinels
func classify(err error) error {
	var notFound *types.NotFound
	var noKey *types.NoSuchKey
	var noBucket *types.NoSuchBucket
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &notFound), errors.As(err, &noKey):
		return fmt.Errorf("%w: %w", storage.ErrNotFound, err)
	case errors.As(err, &noBucket):
		return fmt.Errorf("%w: %w", storage.ErrInvalidConfig, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", storage.ErrTimeout, err)
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %w", storage.ErrPermissionDenied, err)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return fmt.Errorf("%w: %w", storage.ErrAuthFailed, err)
		}
	}
	return fmt.Errorf("%w: %w", storage.ErrConnFailed, err)
}

// extractPrefix returns the part of a pattern before its first metacharacter
func extractPrefix(pattern string) string {
	if idx := strings.IndexAny(pattern, "*?["); idx >= 0 {
		return pattern[:idx]
	}
	return pattern
}
