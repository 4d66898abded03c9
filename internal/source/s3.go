package source

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rotisserie/eris"
)

// GetObjectAPI is the part of the S3 client used to download objects.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 downloads documents from one bucket.
type S3 struct {
	client GetObjectAPI
	bucket string
}

// NewS3 creates a fetcher for bucket using the default AWS credential chain.
// region may be empty to use the chain's region.
func NewS3(ctx context.Context, bucket, region string) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "loading AWS configuration")
	}
	return NewS3WithClient(s3.NewFromConfig(awsCfg), bucket), nil
}

// NewS3WithClient creates a fetcher around an existing client.
func NewS3WithClient(client GetObjectAPI, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

// Fetch downloads the object at key into memory.
func (s *S3) Fetch(ctx context.Context, key string) (*Document, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, eris.Wrapf(ErrNotFound, "s3://%s/%s", s.bucket, key)
		}
		return nil, eris.Wrapf(err, "S3 download failed for s3://%s/%s", s.bucket, key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "reading s3://%s/%s", s.bucket, key)
	}
	return NewDocument(key, data), nil
}
