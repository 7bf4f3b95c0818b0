package oss

import (
	"context"
	"fmt"
	"time"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// QiniuKodoProvider stores files in a Qiniu Kodo bucket
type QiniuKodoProvider struct {
	mac          *qbox.Mac
	bucketName   string
	bucketDomain string
	region       *storage.Region
}

// NewQiniuKodoProvider resolves the bucket region; PublicURL is the bucket's bound domain
func NewQiniuKodoProvider(cfg config.StorageConfig) (*QiniuKodoProvider, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)

	region, err := storage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	bucketDomain := cfg.PublicURL
	if bucketDomain == "" {
		bucketDomain = cfg.Endpoint
	}
	if bucketDomain == "" {
		bucketDomain = fmt.Sprintf("https://%s.%s", cfg.Bucket, region.RsHost)
	}

	logger.Infof("[qiniu] provider ready, bucket: %s, domain: %s", cfg.Bucket, bucketDomain)
	return &QiniuKodoProvider{
		mac:          mac,
		bucketName:   cfg.Bucket,
		bucketDomain: bucketDomain,
		region:       region,
	}, nil
}

// Name implements Provider
func (p *QiniuKodoProvider) Name() string { return "qiniu" }

func (p *QiniuKodoProvider) bucketManager() *storage.BucketManager {
	return storage.NewBucketManager(p.mac, &storage.Config{
		Region:   p.region,
		UseHTTPS: true,
	})
}

// Upload implements Provider
func (p *QiniuKodoProvider) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	key := ObjectKey(in.Folder, in.FileName)
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucketName, key),
	}
	upToken := putPolicy.UploadToken(p.mac)

	cfg := storage.Config{
		Region:        p.region,
		UseHTTPS:      true,
		UseCdnDomains: false,
	}
	formUploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}
	putExtra := storage.PutExtra{MimeType: in.ContentType}

	if err := formUploader.PutFile(ctx, &ret, upToken, key, in.FilePath, &putExtra); err != nil {
		return nil, fmt.Errorf("failed to upload file to qiniu kodo: %w", err)
	}

	logger.Debugf("[qiniu] uploaded %s, hash: %s", ret.Key, ret.Hash)
	return &UploadResult{
		PublicID:  key,
		URL:       storage.MakePublicURL(p.bucketDomain, key),
		CreatedAt: time.Now(),
	}, nil
}

// ListPage implements Provider
func (p *QiniuKodoProvider) ListPage(ctx context.Context, cursor string, limit int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, _, nextMarker, hasNext, err := p.bucketManager().ListFiles(p.bucketName, "", "", cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list files from qiniu kodo: %w", err)
	}

	page := &Page{Objects: make([]Object, 0, len(entries))}
	if hasNext {
		page.NextCursor = nextMarker
	}
	for _, entry := range entries {
		// PutTime is in units of 100ns
		created := time.Unix(0, entry.PutTime*100)
		page.Objects = append(page.Objects, Object{
			PublicID:  entry.Key,
			URL:       storage.MakePublicURL(p.bucketDomain, entry.Key),
			CreatedAt: created,
			Folder:    FolderOf(entry.Key),
		})
	}
	return page, nil
}

// Delete implements Provider
func (p *QiniuKodoProvider) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.bucketManager().Delete(p.bucketName, publicID); err != nil {
		return fmt.Errorf("failed to delete file from qiniu kodo: %w", err)
	}
	return nil
}

// Ping implements Provider
func (p *QiniuKodoProvider) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, _, _, err := p.bucketManager().ListFiles(p.bucketName, "", "", "", 1); err != nil {
		return fmt.Errorf("failed to test qiniu kodo connection: %w", err)
	}
	return nil
}
