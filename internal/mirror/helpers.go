package mirror

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

func newS3Uploader(ctx context.Context, profile string) (*manager.Uploader, error) {
	opts := []func(*config.LoadOptions) error{config.WithRetryMode(aws.RetryModeAdaptive)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return manager.NewUploader(s3.NewFromConfig(cfg)), nil
}

// Upload copies the finished file at localPath to the mirror under name.
func (m *S3Mirror) Upload(ctx context.Context, localPath, name string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("error opening %s for upload: %w", localPath, err)
	}
	defer file.Close()

	key := m.target.Key(name)
	_, err = m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.target.Bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("error uploading to s3://%s/%s: %w", m.target.Bucket, key, err)
	}
	m.logger.Info().Str("op", "mirror/upload").Msgf("Mirrored %s to s3://%s/%s", name, m.target.Bucket, key)
	return nil
}
