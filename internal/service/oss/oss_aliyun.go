package oss

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	aliyun "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// AliyunOSSProvider stores files in an Aliyun OSS bucket
type AliyunOSSProvider struct {
	client  *aliyun.Client
	bucket  *aliyun.Bucket
	name    string
	baseURL string
}

// NewAliyunOSSProvider connects to the bucket; the endpoint defaults to the region's public one
func NewAliyunOSSProvider(cfg config.StorageConfig) (*AliyunOSSProvider, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", cfg.Region)
	}

	client, err := aliyun.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
		baseURL = fmt.Sprintf("https://%s.%s", cfg.Bucket, host)
	}

	logger.Infof("[aliyun] provider ready, endpoint: %s, bucket: %s", endpoint, cfg.Bucket)
	return &AliyunOSSProvider{client: client, bucket: bucket, name: cfg.Bucket, baseURL: baseURL}, nil
}

// Name implements Provider
func (p *AliyunOSSProvider) Name() string { return "aliyun" }

// Upload implements Provider
func (p *AliyunOSSProvider) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
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
	options := []aliyun.Option{aliyun.WithContext(ctx)}
	if in.ContentType != "" {
		options = append(options, aliyun.ContentType(in.ContentType))
	}
	if err := p.bucket.PutObject(key, f, options...); err != nil {
		return nil, fmt.Errorf("failed to upload file to aliyun oss: %w", err)
	}

	return &UploadResult{
		PublicID:  key,
		URL:       joinURL(p.baseURL, key),
		Bytes:     info.Size(),
		CreatedAt: time.Now(),
	}, nil
}

// ListPage implements Provider
func (p *AliyunOSSProvider) ListPage(ctx context.Context, cursor string, limit int) (*Page, error) {
	res, err := p.bucket.ListObjects(
		aliyun.Marker(cursor),
		aliyun.MaxKeys(limit),
		aliyun.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list files from aliyun oss: %w", err)
	}

	page := &Page{Objects: make([]Object, 0, len(res.Objects))}
	if res.IsTruncated {
		page.NextCursor = res.NextMarker
	}
	for _, object := range res.Objects {
		page.Objects = append(page.Objects, Object{
			PublicID:  object.Key,
			URL:       joinURL(p.baseURL, object.Key),
			CreatedAt: object.LastModified,
			Folder:    FolderOf(object.Key),
		})
	}
	return page, nil
}

// Delete implements Provider
func (p *AliyunOSSProvider) Delete(ctx context.Context, publicID string) error {
	if err := p.bucket.DeleteObject(publicID, aliyun.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete file from aliyun oss: %w", err)
	}
	return nil
}

// Ping implements Provider
func (p *AliyunOSSProvider) Ping(ctx context.Context) error {
	if _, err := p.client.GetBucketInfo(p.name, aliyun.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to test aliyun oss connection: %w", err)
	}
	return nil
}
