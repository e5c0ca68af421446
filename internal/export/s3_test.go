package export

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2025, 8, 18, 9, 0, 5, 0, time.UTC)
	require.Equal(t, "exports/enrollment-logs-20250818-090005.csv", ObjectKey(at))
}

func TestUpload_SendsBucketKeyAndBody(t *testing.T) {
	var captured *s3.PutObjectInput

	orig := putObject
	putObject = func(ctx context.Context, client *s3.Client, input *s3.PutObjectInput) error {
		captured = input
		return nil
	}
	defer func() { putObject = orig }()

	u := NewS3Uploader(S3Options{
		Bucket:          "krsbot-exports",
		Region:          "us-east-1",
		BaseEndpoint:    "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "miniosecret",
	})

	err := u.Upload(context.Background(), "exports/enrollment-logs-test.csv", []byte("id,account_id\n"))
	require.NoError(t, err)
	require.NotNil(t, captured)
	require.Equal(t, "krsbot-exports", *captured.Bucket)
	require.Equal(t, "exports/enrollment-logs-test.csv", *captured.Key)
	require.Equal(t, "text/csv", *captured.ContentType)

	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	require.Equal(t, "id,account_id\n", string(body))
}
