package external_services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// S3Options configures an S3 compatible bucket.
type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage uploads files to a bucket and returns their public URL.
type S3Storage struct {
	client  objectAPI
	bucket  string
	baseURL string
	now     func() time.Time
}

var _ contract.IObjectStorage = (*S3Storage)(nil)

// NewS3Storage loads AWS config. Static credentials are used when both keys are
// set, otherwise the default provider chain applies.
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return newS3Storage(client, opts), nil
}

func newS3Storage(client objectAPI, opts S3Options) *S3Storage {
	baseURL := strings.TrimRight(opts.PublicBaseURL, "/")
	if baseURL == "" {
		switch {
		case opts.Endpoint != "":
			baseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		default:
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}
	return &S3Storage{client: client, bucket: opts.Bucket, baseURL: baseURL, now: time.Now}
}

// Upload stores file under folder/yyyy/mm/<uuid><ext>.
func (s *S3Storage) Upload(ctx context.Context, folder string, file entity.Upload) (*entity.StoredObject, error) {
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("empty upload")
	}
	d := s.now().UTC()
	key := fmt.Sprintf("%s/%d/%02d/%s%s", strings.Trim(folder, "/"), d.Year(), d.Month(), uuid.New(), strings.ToLower(path.Ext(file.Filename)))

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentLength: aws.Int64(int64(len(file.Data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}
	return &entity.StoredObject{URL: s.baseURL + "/" + key, Key: key}, nil
}

// Delete removes an object. An empty key is a no-op.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
