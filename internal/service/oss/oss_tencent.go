package oss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// TencentCOSProvider stores files in a Tencent COS bucket
type TencentCOSProvider struct {
	client  *cos.Client
	baseURL string
}

// NewTencentCOSProvider builds the bucket client; Endpoint overrides the bucket URL
func NewTencentCOSProvider(cfg config.StorageConfig) (*TencentCOSProvider, error) {
	bucketURL := fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		bucketURL = cfg.Endpoint
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		},
	})

	baseURL := cfg.PublicURL
	if baseURL == "" {
		baseURL = bucketURL
	}

	logger.Infof("[tencent] provider ready, bucket url: %s", bucketURL)
	return &TencentCOSProvider{client: client, baseURL: baseURL}, nil
}

// Name implements Provider
func (p *TencentCOSProvider) Name() string { return "tencent" }

// Upload implements Provider
func (p *TencentCOSProvider) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
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
	options := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   in.ContentType,
			ContentLength: info.Size(),
		},
	}
	if _, err := p.client.Object.Put(ctx, key, f, options); err != nil {
		return nil, fmt.Errorf("failed to upload file to tencent cos: %w", err)
	}

	return &UploadResult{
		PublicID:  key,
		URL:       joinURL(p.baseURL, key),
		Bytes:     info.Size(),
		CreatedAt: time.Now(),
	}, nil
}

// ListPage implements Provider
func (p *TencentCOSProvider) ListPage(ctx context.Context, cursor string, limit int) (*Page, error) {
	result, _, err := p.client.Bucket.Get(ctx, &cos.BucketGetOptions{
		Marker:  cursor,
		MaxKeys: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files from tencent cos: %w", err)
	}

	page := &Page{Objects: make([]Object, 0, len(result.Contents))}
	if result.IsTruncated {
		page.NextCursor = result.NextMarker
		if page.NextCursor == "" && len(result.Contents) > 0 {
			// NextMarker is only sent with a delimiter; the last key resumes the walk
			page.NextCursor = result.Contents[len(result.Contents)-1].Key
		}
	}
	for _, object := range result.Contents {
		created, _ := time.Parse(time.RFC3339, object.LastModified)
		page.Objects = append(page.Objects, Object{
			PublicID:  object.Key,
			URL:       joinURL(p.baseURL, object.Key),
			CreatedAt: created,
			Folder:    FolderOf(object.Key),
		})
	}
	return page, nil
}

// Delete implements Provider
func (p *TencentCOSProvider) Delete(ctx context.Context, publicID string) error {
	if _, err := p.client.Object.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("failed to delete file from tencent cos: %w", err)
	}
	return nil
}

// Ping implements Provider
func (p *TencentCOSProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Bucket.Head(ctx); err != nil {
		return fmt.Errorf("failed to test tencent cos connection: %w", err)
	}
	return nil
}
