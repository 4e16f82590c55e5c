// Package s3 fetches documents from Amazon S3 with GetObject.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of the S3 client used by Source.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Ensure the SDK client satisfies API.
var _ API = (*s3.Client)(nil)

// Source reads one S3 object.
type Source struct {
	bucket    string
	key       string
	awsConfig *aws.Config
	client    API

	clientInit    sync.Once
	clientInitErr error
}

// Option configures a Source.
type Option func(*Source)

// WithClient sets the S3 client. It takes precedence over WithAWSConfig.
func WithClient(client API) Option {
	return func(s *Source) {
		if client != nil {
			s.client = client
		}
	}
}

// WithAWSConfig sets the AWS configuration used to build the default client.
// Without it the configuration is loaded from the environment on first use.
func WithAWSConfig(cfg aws.Config) Option {
	return func(s *Source) {
		s.awsConfig = &cfg
	}
}

// New creates a source for the given bucket and key.
//
// Example:
//
//	src := s3.New("my-bucket", "config/app.yaml")
//	src := s3.New("my-bucket", "config/app.yaml", s3.WithClient(client))
func New(bucket, key string, opts ...Option) *Source {
	s := &Source{
		bucket: bucket,
		key:    key,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseURL splits an s3://bucket/key URL.
func ParseURL(rawURL string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(rawURL, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URL: %q", rawURL)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 URL must name a bucket and a key: %q", rawURL)
	}
	return bucket, key, nil
}

// Bucket returns the S3 bucket name.
func (s *Source) Bucket() string {
	return s.bucket
}

// Key returns the S3 object key.
func (s *Source) Key() string {
	return s.key
}

func (s *Source) location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// ensureClient creates a default S3 client if one was not provided.
func (s *Source) ensureClient(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	s.clientInit.Do(func() {
		cfg := s.awsConfig
		if cfg == nil {
			loaded, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				s.clientInitErr = fmt.Errorf("failed to load AWS config: %w", err)
				return
			}
			cfg = &loaded
		}
		s.client = s3.NewFromConfig(*cfg)
	})
	return s.clientInitErr
}

// Load fetches the object body. A missing object is reported as an error
// wrapping fs.ErrNotExist.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureClient(ctx); err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("object %s: %w", s.location(), fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to get object %s: %w", s.location(), err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}
