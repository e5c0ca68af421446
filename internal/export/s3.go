package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures the uploader. BaseEndpoint is optional; setting it
// switches the client to path-style addressing for MinIO-compatible stores.
type S3Options struct {
	Bucket          string
	Region          string
	BaseEndpoint    string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Uploader ships rendered exports to an S3 bucket.
type S3Uploader struct {
	opts S3Options
}

func NewS3Uploader(opts S3Options) *S3Uploader {
	return &S3Uploader{opts: opts}
}

// ObjectKey names one export by its moment in time.
func ObjectKey(now time.Time) string {
	return fmt.Sprintf("exports/enrollment-logs-%s.csv", now.UTC().Format("20060102-150405"))
}

func (u *S3Uploader) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(u.opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.opts.AccessKeyID,
			u.opts.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if u.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// putObject is a seam for testing Upload without a live bucket.
var putObject = func(ctx context.Context, client *s3.Client, input *s3.PutObjectInput) error {
	_, err := client.PutObject(ctx, input)
	return err
}

// Upload stores body under key in the configured bucket.
func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte) error {
	client, err := u.client(ctx)
	if err != nil {
		return err
	}
	return putObject(ctx, client, &s3.PutObjectInput{
		Bucket:      aws.String(u.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
}
