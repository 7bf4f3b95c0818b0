package oss

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// Documents are stored as raw resources so that pdf/docx keep their bytes and extension
const cloudinaryResourceType = "raw"

// CloudinaryProvider stores files as Cloudinary raw assets
type CloudinaryProvider struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryProvider creates the provider from cloud name and API credentials
func NewCloudinaryProvider(cfg config.StorageConfig) (*CloudinaryProvider, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	logger.Infof("[cloudinary] provider ready, cloud: %s", cfg.CloudName)
	return &CloudinaryProvider{cld: cld}, nil
}

// Name implements Provider
func (p *CloudinaryProvider) Name() string { return "cloudinary" }

// Upload implements Provider
func (p *CloudinaryProvider) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	res, err := p.cld.Upload.Upload(ctx, in.FilePath, uploader.UploadParams{
		Folder:           in.Folder,
		ResourceType:     cloudinaryResourceType,
		UseFilename:      api.Bool(true),
		UniqueFilename:   api.Bool(true),
		FilenameOverride: in.FileName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", res.Error.Message)
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	logger.Debugf("[cloudinary] uploaded %s (%d bytes)", res.PublicID, res.Bytes)
	return &UploadResult{
		PublicID:  res.PublicID,
		URL:       url,
		Bytes:     int64(res.Bytes),
		CreatedAt: res.CreatedAt,
	}, nil
}

// ListPage implements Provider
func (p *CloudinaryProvider) ListPage(ctx context.Context, cursor string, limit int) (*Page, error) {
	res, err := p.cld.Admin.Assets(ctx, admin.AssetsParams{
		AssetType:  api.AssetType(cloudinaryResourceType),
		MaxResults: limit,
		NextCursor: cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cloudinary assets: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected listing: %s", res.Error.Message)
	}

	page := &Page{
		Objects:    make([]Object, 0, len(res.Assets)),
		NextCursor: res.NextCursor,
	}
	for _, asset := range res.Assets {
		url := asset.SecureURL
		if url == "" {
			url = asset.URL
		}
		page.Objects = append(page.Objects, Object{
			PublicID:  asset.PublicID,
			URL:       url,
			CreatedAt: asset.CreatedAt,
			Folder:    FolderOf(asset.PublicID),
		})
	}
	return page, nil
}

// Delete implements Provider
func (p *CloudinaryProvider) Delete(ctx context.Context, publicID string) error {
	res, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: cloudinaryResourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary asset: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected delete: %s", res.Error.Message)
	}
	return nil
}

// Ping implements Provider
func (p *CloudinaryProvider) Ping(ctx context.Context) error {
	if _, err := p.cld.Admin.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach cloudinary: %w", err)
	}
	return nil
}
