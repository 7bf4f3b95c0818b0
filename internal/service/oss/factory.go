package oss

import (
	"context"
	"fmt"

	"github.com/weiwangfds/collegenotes/config"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// ErrUnsupportedProvider is returned for an unknown storage.provider
var ErrUnsupportedProvider = fmt.Errorf("unsupported storage provider")

// NewProvider builds the configured provider.
// Missing credentials or a failing constructor yield an unconfigured provider whose
// calls fail with an UploadError, so the service still starts.
func NewProvider(ctx context.Context, cfg config.StorageConfig) (Provider, error) {
	if missing := missingCredentials(cfg); len(missing) > 0 {
		logger.Warnf("[%s] object store not configured, missing: %v", cfg.Provider, missing)
		return NewUnconfigured(cfg.Provider, fmt.Errorf("missing %v", missing)), nil
	}

	var (
		provider Provider
		err      error
	)
	switch cfg.Provider {
	case "cloudinary":
		provider, err = NewCloudinaryProvider(cfg)
	case "aliyun":
		provider, err = NewAliyunOSSProvider(cfg)
	case "tencent":
		provider, err = NewTencentCOSProvider(cfg)
	case "qiniu":
		provider, err = NewQiniuKodoProvider(cfg)
	case "s3":
		provider, err = NewS3Provider(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
	if err != nil {
		logger.Errorf("[%s] failed to initialize object store: %v", cfg.Provider, err)
		return NewUnconfigured(cfg.Provider, err), nil
	}
	return provider, nil
}

func missingCredentials(cfg config.StorageConfig) []string {
	var required map[string]string
	switch cfg.Provider {
	case "cloudinary":
		required = map[string]string{
			"cloud_name": cfg.CloudName,
			"api_key":    cfg.APIKey,
			"api_secret": cfg.APISecret,
		}
	case "aliyun", "tencent", "qiniu", "s3":
		required = map[string]string{
			"bucket":     cfg.Bucket,
			"access_key": cfg.AccessKey,
			"secret_key": cfg.SecretKey,
		}
		// aliyun and tencent derive the endpoint from the region
		if (cfg.Provider == "aliyun" || cfg.Provider == "tencent") && cfg.Endpoint == "" {
			required["region"] = cfg.Region
		}
	}

	var missing []string
	for _, key := range []string{"cloud_name", "api_key", "api_secret", "bucket", "access_key", "secret_key", "region"} {
		if value, ok := required[key]; ok && value == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Unconfigured is a provider that fails every call
type Unconfigured struct {
	name  string
	cause error
}

// NewUnconfigured returns a provider reporting cause on every call
func NewUnconfigured(name string, cause error) *Unconfigured {
	return &Unconfigured{name: name, cause: cause}
}

func (u *Unconfigured) err() error {
	return apperrors.ErrStorageNotConfigured.WithDetails(u.name).WithError(u.cause)
}

// Name implements Provider
func (u *Unconfigured) Name() string { return u.name }

// Upload implements Provider
func (u *Unconfigured) Upload(context.Context, UploadInput) (*UploadResult, error) {
	return nil, u.err()
}

// ListPage implements Provider
func (u *Unconfigured) ListPage(context.Context, string, int) (*Page, error) {
	return nil, u.err()
}

// Delete implements Provider
func (u *Unconfigured) Delete(context.Context, string) error {
	return u.err()
}

// Ping implements Provider
func (u *Unconfigured) Ping(context.Context) error {
	return u.err()
}
