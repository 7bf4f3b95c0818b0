package oss

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/collegenotes/config"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
)

func TestFolderOf(t *testing.T) {
	assert.Equal(t, "Notes/2023", FolderOf("Notes/2023/a.pdf"))
	assert.Equal(t, "Questions", FolderOf("/Questions/b.docx"))
	assert.Equal(t, "", FolderOf("c.pdf"))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("/Notes/2023/", `C:\Users\me\unit 1.pdf`)
	parts := strings.Split(key, "/")
	require.Len(t, parts, 4)
	assert.Equal(t, "Notes", parts[0])
	assert.Equal(t, "2023", parts[1])
	assert.Len(t, parts[2], 36)
	assert.Equal(t, "unit 1.pdf", parts[3])

	assert.NotEqual(t, key, ObjectKey("Notes/2023", "unit 1.pdf"))
	assert.True(t, strings.HasSuffix(ObjectKey("", ""), "/file"))
}

func TestNewProviderWithoutCredentials(t *testing.T) {
	for _, name := range []string{"cloudinary", "aliyun", "tencent", "qiniu", "s3"} {
		t.Run(name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), config.StorageConfig{Provider: name})
			require.NoError(t, err)
			assert.IsType(t, &Unconfigured{}, p)
			assert.Equal(t, name, p.Name())

			_, err = p.Upload(context.Background(), UploadInput{FilePath: "x"})
			assert.ErrorIs(t, err, apperrors.ErrStorageNotConfigured)
			assert.True(t, apperrors.IsKind(err, apperrors.KindUpload))
		})
	}
}

func TestNewProviderRequiresRegionWithoutEndpoint(t *testing.T) {
	for _, name := range []string{"aliyun", "tencent"} {
		t.Run(name, func(t *testing.T) {
			cfg := config.StorageConfig{
				Provider:  name,
				Bucket:    "notes-1250000000",
				AccessKey: "ak",
				SecretKey: "sk",
			}
			p, err := NewProvider(context.Background(), cfg)
			require.NoError(t, err)
			require.IsType(t, &Unconfigured{}, p)
			assert.Equal(t, []string{"region"}, missingCredentials(cfg))

			cfg.Endpoint = "https://oss-cn-hangzhou.aliyuncs.com"
			assert.Empty(t, missingCredentials(cfg))
		})
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(context.Background(), config.StorageConfig{Provider: "dropbox"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNewProviderBuildsClients(t *testing.T) {
	p, err := NewProvider(context.Background(), config.StorageConfig{
		Provider:  "cloudinary",
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	})
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryProvider{}, p)

	p, err = NewProvider(context.Background(), config.StorageConfig{
		Provider:  "s3",
		Bucket:    "notes",
		AccessKey: "minio",
		SecretKey: "minio123",
		Endpoint:  "http://localhost:9000",
	})
	require.NoError(t, err)
	require.IsType(t, &S3Provider{}, p)
	assert.Equal(t, "http://localhost:9000/notes", p.(*S3Provider).baseURL)
}
