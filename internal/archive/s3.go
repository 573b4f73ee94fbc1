package archive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"indicators/internal/config"
)

// S3 uploads payloads to <prefix>/<dataset>/<stamp>_<name> in a bucket.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3 builds a path-style client for cfg.Endpoint, or for AWS itself when
// no endpoint is set.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 archive requires a bucket")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			scheme := "http"
			if cfg.UseSSL {
				scheme = "https"
			}
			o.BaseEndpoint = aws.String(fmt.Sprintf("%s://%s", scheme, normalizeEndpoint(cfg.Endpoint)))
			o.UsePathStyle = true
			// S3 compatible stores reject the default streaming checksums.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
	})

	return &S3{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		now:    time.Now,
	}, nil
}

// normalizeEndpoint strips the scheme and any path from endpoint.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}
	return endpoint
}

func (s *S3) key(dataset, name string) string {
	return path.Join(s.prefix, dataset, objectName(s.now(), name))
}

func (s *S3) Put(ctx context.Context, dataset, name string, body []byte) (string, error) {
	key := s.key(dataset, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(http.DetectContentType(body)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
