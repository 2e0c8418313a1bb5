// Package storage archives exported files to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	appconfig "medguide/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archive struct {
	client objectPutter
	bucket string
}

// NewS3Archive loads credentials from the default AWS chain. S3_ENDPOINT points at
// S3-compatible stores (MinIO, LocalStack) and switches to path-style addressing.
func NewS3Archive(ctx context.Context, cfg appconfig.S3Config) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3_BUCKET is required for export archiving")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archive{client: client, bucket: cfg.Bucket}, nil
}

func (a *S3Archive) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", a.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
