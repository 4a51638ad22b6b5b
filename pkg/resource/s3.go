package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when S3Config.Region is empty.
const DefaultRegion = "us-east-1"

// S3Config holds the configuration of an S3-compatible resource bucket.
// Embed this in your app config for env parsing with caarlos0/env.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"BUCKET"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"ACCESS_KEY"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"SECRET_KEY"`

	// Endpoint is a custom endpoint URL for MinIO or other S3-compatible services.
	Endpoint string `env:"ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"REGION"`

	// Prefix is prepended to every object key, e.g. "locales/".
	Prefix string `env:"PREFIX"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"PATH_STYLE"`

	// MaxSize is the largest accepted object in bytes (default: DefaultMaxSize).
	MaxSize int64 `env:"MAX_SIZE"`
}

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.Prefix != "" && !strings.HasSuffix(c.Prefix, "/") {
		c.Prefix += "/"
	}
}

func (c *S3Config) validate() error {
	switch {
	case c.Bucket == "":
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	case c.AccessKey == "":
		return fmt.Errorf("%w: access key is required", ErrInvalidConfig)
	case c.SecretKey == "":
		return fmt.Errorf("%w: secret key is required", ErrInvalidConfig)
	}
	return nil
}

// S3 fetches resources stored as "{prefix}{locale}/{resourceID}" objects.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 creates an S3 fetcher.
//
// Example:
//
//	f, err := resource.NewS3(resource.S3Config{
//		Bucket:    "translations",
//		Prefix:    "ftl/",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
func NewS3(cfg S3Config) (*S3, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3{client: s3.New(s3.Options{}, opts...), cfg: cfg}, nil
}

// Key returns the object key of a resource.
func (s *S3) Key(resourceID, locale string) (string, error) {
	p, err := Path(resourceID, locale)
	if err != nil {
		return "", err
	}
	return s.cfg.Prefix + p, nil
}

// Fetch downloads the resource object.
func (s *S3) Fetch(ctx context.Context, resourceID, locale string) (string, error) {
	key, err := s.Key(resourceID, locale)
	if err != nil {
		return "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", wrapS3Error(err, ErrFetchFailed)
	}
	defer out.Body.Close()

	if out.ContentLength != nil && *out.ContentLength > s.cfg.MaxSize {
		return "", fmt.Errorf("%w: %s", ErrTooLarge, key)
	}
	src, err := readLimited(out.Body, s.cfg.MaxSize)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return "", fmt.Errorf("%w: %s", ErrTooLarge, key)
		}
		return "", fmt.Errorf("%w: reading %q: %w", ErrFetchFailed, key, err)
	}
	return src, nil
}

// wrapS3Error maps S3 failures onto the package sentinels. The original
// error is kept as text only; callers match with errors.Is on the sentinels.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}

var _ Fetcher = (*S3)(nil)
