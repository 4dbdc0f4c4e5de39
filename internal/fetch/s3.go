package fetch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options selects region and optional static credentials. When the keys
// are empty the default credential chain is used.
type S3Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Getter downloads objects with the transfer manager.
type S3Getter struct {
	downloader *manager.Downloader
}

// LoadAWSConfig builds an aws.Config from opts.
func LoadAWSConfig(ctx context.Context, opts S3Options) (aws.Config, error) {
	var loadOpts []func(*awscfg.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awscfg.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewS3Getter creates a getter from the AWS configuration.
func NewS3Getter(ctx context.Context, opts S3Options) (*S3Getter, error) {
	cfg, err := LoadAWSConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &S3Getter{downloader: manager.NewDownloader(s3.NewFromConfig(cfg))}, nil
}

// Download fetches bucket/key into memory.
func (g *S3Getter) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer([]byte{})
	if _, err := g.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	return buf.Bytes(), nil
}
