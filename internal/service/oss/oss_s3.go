package oss

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// S3Provider stores files in an S3 compatible bucket (AWS, MinIO, R2)
type S3Provider struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Provider builds the client. A custom Endpoint switches to path style addressing.
func NewS3Provider(ctx context.Context, cfg config.StorageConfig) (*S3Provider, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicURL
	switch {
	case baseURL != "":
	case cfg.Endpoint != "":
		baseURL = joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}

	logger.Infof("[s3] provider ready, bucket: %s, region: %s", cfg.Bucket, region)
	return &S3Provider{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Name implements Provider
func (p *S3Provider) Name() string { return "s3" }

// Upload implements Provider
func (p *S3Provider) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	f, err := os.Open(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open scratch file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat scratch file: %w", err)
	}

	key := ObjectKey(in.Folder, in.FileName)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}
	if _, err := p.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload file to s3: %w", err)
	}

	return &UploadResult{
		PublicID:  key,
		URL:       joinURL(p.baseURL, key),
		Bytes:     info.Size(),
		CreatedAt: time.Now(),
	}, nil
}

// ListPage implements Provider
func (p *S3Provider) ListPage(ctx context.Context, cursor string, limit int) (*Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(p.bucket),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if cursor != "" {
		input.ContinuationToken = aws.String(cursor)
	}

	out, err := p.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list s3 objects: %w", err)
	}

	page := &Page{Objects: make([]Object, 0, len(out.Contents))}
	if aws.ToBool(out.IsTruncated) {
		page.NextCursor = aws.ToString(out.NextContinuationToken)
	}
	for _, object := range out.Contents {
		key := aws.ToString(object.Key)
		page.Objects = append(page.Objects, Object{
			PublicID:  key,
			URL:       joinURL(p.baseURL, key),
			CreatedAt: aws.ToTime(object.LastModified),
			Folder:    FolderOf(key),
		})
	}
	return page, nil
}

// Delete implements Provider
func (p *S3Provider) Delete(ctx context.Context, publicID string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete s3 object: %w", err)
	}
	return nil
}

// Ping implements Provider
func (p *S3Provider) Ping(ctx context.Context) error {
	if _, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)}); err != nil {
		return fmt.Errorf("failed to reach s3 bucket %s: %w", p.bucket, err)
	}
	return nil
}
